package http

import (
	"context"
	"encoding/json"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	writemonitor "github.com/uttarayan21/write-monitor"
	"go.uber.org/zap"
)

const transferPath = "/v1/transfers"

// TransferHandler represents an HTTP API handler for transfers.
type TransferHandler struct {
	*httprouter.Router

	Logger          *zap.Logger
	TransferService writemonitor.TransferService
}

// NewTransferHandler returns a new instance of TransferHandler.
func NewTransferHandler() *TransferHandler {
	h := &TransferHandler{
		Router: httprouter.New(),
		Logger: zap.NewNop(),
	}

	h.HandlerFunc("GET", transferPath, h.handleGetTransfers)
	h.HandlerFunc("GET", transferPath+"/:id", h.handleGetTransfer)

	return h
}

// handleGetTransfer is the HTTP handler for the GET /v1/transfers/:id route.
func (h *TransferHandler) handleGetTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeGetTransferRequest(ctx, r)
	if err != nil {
		EncodeError(ctx, err, w)
		return
	}

	t, err := h.TransferService.FindTransferByID(ctx, req.TransferID)
	if err != nil {
		EncodeError(ctx, err, w)
		return
	}

	if err := encodeResponse(ctx, w, http.StatusOK, t); err != nil {
		h.Logger.Info("failed to encode response", zap.Error(err))
		return
	}
}

type getTransferRequest struct {
	TransferID string
}

func decodeGetTransferRequest(ctx context.Context, r *http.Request) (*getTransferRequest, error) {
	params := httprouter.ParamsFromContext(ctx)
	id := params.ByName("id")
	if id == "" {
		return nil, &writemonitor.Error{Code: writemonitor.EInvalid, Msg: "url missing id"}
	}

	return &getTransferRequest{
		TransferID: id,
	}, nil
}

// handleGetTransfers is the HTTP handler for the GET /v1/transfers route.
func (h *TransferHandler) handleGetTransfers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := decodeGetTransfersRequest(ctx, r)

	ts, _, err := h.TransferService.FindTransfers(ctx, req.filter)
	if err != nil {
		EncodeError(ctx, err, w)
		return
	}
	if ts == nil {
		ts = []*writemonitor.Transfer{}
	}

	if err := encodeResponse(ctx, w, http.StatusOK, ts); err != nil {
		h.Logger.Info("failed to encode response", zap.Error(err))
		return
	}
}

type getTransfersRequest struct {
	filter writemonitor.TransferFilter
}

func decodeGetTransfersRequest(ctx context.Context, r *http.Request) *getTransfersRequest {
	qp := r.URL.Query()
	req := &getTransfersRequest{}

	if id := qp.Get("id"); id != "" {
		req.filter.ID = &id
	}

	if name := qp.Get("name"); name != "" {
		req.filter.Name = &name
	}

	return req
}

var _ writemonitor.TransferService = (*TransferService)(nil)

// TransferService connects to a running wmon process over HTTP.
type TransferService struct {
	Addr               string
	InsecureSkipVerify bool
}

// FindTransferByID returns a single transfer by ID.
func (s *TransferService) FindTransferByID(ctx context.Context, id string) (*writemonitor.Transfer, error) {
	u, err := newURL(s.Addr, transferIDPath(id))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, err
	}

	hc := newClient(u.Scheme, s.InsecureSkipVerify)
	resp, err := hc.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := CheckError(resp); err != nil {
		return nil, err
	}

	var t writemonitor.Transfer
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, errors.Wrap(err, "decoding transfer")
	}

	return &t, nil
}

// FindTransfers returns a list of transfers that match filter and the total count of matching transfers.
func (s *TransferService) FindTransfers(ctx context.Context, filter writemonitor.TransferFilter) ([]*writemonitor.Transfer, int, error) {
	u, err := newURL(s.Addr, transferPath)
	if err != nil {
		return nil, 0, err
	}

	query := u.Query()
	if filter.ID != nil {
		query.Add("id", *filter.ID)
	}
	if filter.Name != nil {
		query.Add("name", *filter.Name)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, 0, err
	}

	hc := newClient(u.Scheme, s.InsecureSkipVerify)
	resp, err := hc.Do(req.WithContext(ctx))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if err := CheckError(resp); err != nil {
		return nil, 0, err
	}

	var ts []*writemonitor.Transfer
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		return nil, 0, errors.Wrap(err, "decoding transfers")
	}

	return ts, len(ts), nil
}

func transferIDPath(id string) string {
	return path.Join(transferPath, id)
}
