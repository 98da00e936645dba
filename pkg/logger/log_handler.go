package logger

import (
	"context"
	"log/slog"

	"stock-alert-service/pkg/ctxutil"
)

// RequestIDHandler decorates every record with the request id and, when
// present, the authenticated user id carried in the context. Consumer
// workers run outside any HTTP request but get a synthetic request id per
// message, so their records correlate the same way.
type RequestIDHandler struct {
	slog.Handler
}

func (h *RequestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		r.AddAttrs(slog.String("request_id", requestID))
	}
	if userID := ctxutil.GetUserID(ctx); userID != 0 {
		r.AddAttrs(slog.Int64("user_id", userID))
	}
	return h.Handler.Handle(ctx, r)
}
