package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// billScoped is implemented by messages that refer to a single bill.
type billScoped interface {
	GetBillID() string
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, peer, duration and, for bill-scoped calls, the bill ID.
// Client errors log at Warn; internal failures at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []slog.Attr{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("peer", req.Peer().Addr),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			if id := billID(req, resp, err); id != "" {
				attrs = append(attrs, slog.String("bill_id", id))
			}

			if err == nil {
				slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
				return resp, nil
			}

			level := slog.LevelError
			var connectErr *connect.Error
			if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal {
				level = slog.LevelWarn
				attrs = append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()),
				)
			} else {
				attrs = append(attrs, slog.Any("error", err))
			}
			slog.LogAttrs(ctx, level, "RPC error", attrs...)
			return resp, err
		}
	}
}

// billID returns the bill a call refers to, preferring the request.
// A failed call may carry a typed nil response, so only successes are consulted.
func billID(req connect.AnyRequest, resp connect.AnyResponse, err error) string {
	if m, ok := req.Any().(billScoped); ok && m.GetBillID() != "" {
		return m.GetBillID()
	}
	if err != nil || resp == nil {
		return ""
	}
	if m, ok := resp.Any().(billScoped); ok {
		return m.GetBillID()
	}
	return ""
}
