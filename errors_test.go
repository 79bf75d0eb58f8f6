package writemonitor_test

import (
	"errors"
	"testing"

	writemonitor "github.com/uttarayan21/write-monitor"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("boom"), want: writemonitor.EInternal},
		{name: "coded", err: &writemonitor.Error{Code: writemonitor.ENotFound, Msg: "transfer not found"}, want: writemonitor.ENotFound},
		{name: "no code", err: &writemonitor.Error{Msg: "oops"}, want: writemonitor.EInternal},
	}
	for _, tt := range tests {
		if got := writemonitor.ErrorCode(tt.err); got != tt.want {
			t.Errorf("%s: ErrorCode() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestError_Error(t *testing.T) {
	err := &writemonitor.Error{Code: writemonitor.EInvalid, Msg: "bad id", Err: errors.New("too short")}
	if got, want := err.Error(), "bad id: too short"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTransfer_Done(t *testing.T) {
	tests := []struct {
		name string
		t    writemonitor.Transfer
		want bool
	}{
		{name: "unknown total", t: writemonitor.Transfer{BytesWritten: 10}, want: false},
		{name: "in progress", t: writemonitor.Transfer{Total: 20, BytesWritten: 10}, want: false},
		{name: "complete", t: writemonitor.Transfer{Total: 20, BytesWritten: 20}, want: true},
	}
	for _, tt := range tests {
		if got := tt.t.Done(); got != tt.want {
			t.Errorf("%s: Done() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
