package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantMsg   string
	}{
		{"success", nil, "level=INFO", `msg="RPC ok"`},
		{"client error", connect.NewError(connect.CodeInvalidArgument, errors.New("bad bill")), "level=WARN", "code=invalid_argument"},
		{"internal error", connect.NewError(connect.CodeInternal, errors.New("disk")), "level=ERROR", `msg="RPC error"`},
		{"plain error", errors.New("boom"), "level=ERROR", "error=boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return connect.NewResponse(&struct{}{}), nil
			}
			_, err := LoggingInterceptor()(next)(context.Background(), connect.NewRequest(&struct{}{}))
			if !errors.Is(err, tt.err) {
				t.Errorf("interceptor changed the error: %v", err)
			}

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) || !strings.Contains(out, tt.wantMsg) {
				t.Errorf("log output %q missing %q / %q", out, tt.wantLevel, tt.wantMsg)
			}
		})
	}
}

type billRequest struct{ ID string }

func (r *billRequest) GetBillID() string { return r.ID }

type billResponse struct{ ID string }

func (r *billResponse) GetBillID() string { return r.ID }

func TestLoggingInterceptor_BillID(t *testing.T) {
	tests := []struct {
		name   string
		req    connect.AnyRequest
		resp   connect.AnyResponse
		err    error
		wantID string
	}{
		{"from request", connect.NewRequest(&billRequest{ID: "b1"}), connect.NewResponse(&struct{}{}), nil, "bill_id=b1"},
		{"generated in response", connect.NewRequest(&billRequest{}), connect.NewResponse(&billResponse{ID: "new"}), nil, "bill_id=new"},
		{"failed call", connect.NewRequest(&billRequest{ID: "b2"}), nil, connect.NewError(connect.CodeNotFound, errors.New("missing")), "bill_id=b2"},
		{"failed call without id", connect.NewRequest(&billRequest{}), nil, connect.NewError(connect.CodeInvalidArgument, errors.New("bad")), ""},
		{"not bill scoped", connect.NewRequest(&struct{}{}), connect.NewResponse(&struct{}{}), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			next := func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					// Handlers hand back a typed nil response on error.
					var resp *connect.Response[billResponse]
					return resp, tt.err
				}
				return tt.resp, nil
			}
			_, _ = LoggingInterceptor()(next)(context.Background(), tt.req)

			out := buf.String()
			if tt.wantID == "" {
				if strings.Contains(out, "bill_id") {
					t.Errorf("unexpected bill_id in %q", out)
				}
				return
			}
			if !strings.Contains(out, tt.wantID) {
				t.Errorf("log output %q missing %q", out, tt.wantID)
			}
		})
	}
}
