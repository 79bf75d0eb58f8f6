package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	writemonitor "github.com/uttarayan21/write-monitor"
)

// EncodeError writes err to w as a JSON error body with a status code
// derived from its writemonitor error code.
func EncodeError(ctx context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		return
	}

	code := writemonitor.ErrorCode(err)
	body := &writemonitor.Error{
		Code: code,
		Msg:  err.Error(),
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode(code))
	_ = json.NewEncoder(w).Encode(body)
}

// CheckError reads the http.Response and returns an error if one exists.
// It decodes JSON error bodies back into *writemonitor.Error so the error
// code survives the round trip.
func CheckError(resp *http.Response) error {
	if resp.StatusCode/100 == 2 {
		return nil
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return &writemonitor.Error{
			Code: writemonitor.EInternal,
			Msg:  fmt.Sprintf("failed to read error response (status %d)", resp.StatusCode),
			Err:  err,
		}
	}

	var e writemonitor.Error
	if err := json.Unmarshal(body, &e); err != nil || e.Code == "" {
		return &writemonitor.Error{
			Code: writemonitor.EInternal,
			Msg:  fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, body),
		}
	}
	return &e
}

func statusCode(code string) int {
	switch code {
	case writemonitor.ENotFound:
		return http.StatusNotFound
	case writemonitor.EInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
