package middleware

import (
	"net/http"
)

// Middleware — обёртка net/http обработчика; из таких собираются цепочки
// страничных и операционных маршрутов портала.
type Middleware func(http.Handler) http.Handler

// Chain собирает цепочку: первый перечисленный мидлвар — внешний.
// На страницах за базовой цепочкой следуют Metrics, Guard и Progress,
// на операционных эндпоинтах — только Metrics.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// statusWriter перехватывает статус и объём ответа для Logging и Metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}
