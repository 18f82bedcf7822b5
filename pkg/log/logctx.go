// log прокидывает request-scoped slog.Logger через context: мидлвар
// Logging кладёт логгер с request_id, нижние слои (сессии, сервис,
// хранилища) пишут в него, не принимая логгер параметром.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From возвращает логгер запроса; вне HTTP-цепочки — slog.Default().
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}
