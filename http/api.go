// Package http serves and queries the transfers of a running wmon process.
package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	writemonitor "github.com/uttarayan21/write-monitor"
	"go.uber.org/zap"
)

const metricsPath = "/metrics"

// APIHandler serves the transfer API and, when a Gatherer is given, /metrics.
type APIHandler struct {
	TransferHandler *TransferHandler
	MetricsHandler  http.Handler
}

// NewAPIHandler wires a TransferHandler over s. g may be nil.
func NewAPIHandler(s writemonitor.TransferService, g prometheus.Gatherer, logger *zap.Logger) *APIHandler {
	h := &APIHandler{
		TransferHandler: NewTransferHandler(),
	}
	h.TransferHandler.TransferService = s
	if logger != nil {
		h.TransferHandler.Logger = logger
	}
	if g != nil {
		h.MetricsHandler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return h
}

// ServeHTTP delegates a request to the appropriate subhandler.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == metricsPath && h.MetricsHandler != nil {
		h.MetricsHandler.ServeHTTP(w, r)
		return
	}
	h.TransferHandler.ServeHTTP(w, r)
}

func encodeResponse(ctx context.Context, w http.ResponseWriter, code int, res interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(res)
}

func newURL(addr, path string) (*url.URL, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, err
	}
	u.Path = path
	return u, nil
}

func newClient(scheme string, insecure bool) *http.Client {
	hc := &http.Client{}
	if scheme == "https" && insecure {
		hc.Transport = &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	}
	return hc
}
