package middleware

import (
	"net/http"
	"time"

	"github.com/denmor86/ya-reseller/internal/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// statusRecorder - запоминает код и размер ответа для журнала и метрик
type statusRecorder struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

// LogHandle - middleware-логер для входящих HTTP-запросов
func LogHandle(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		h.ServeHTTP(rec, r)

		fields := []interface{}{
			"uri", r.RequestURI,
			"method", r.Method,
			"status", rec.status,
			"duration", time.Since(start),
			"size", rec.size,
			"request_id", chimiddleware.GetReqID(r.Context()),
		}
		if customer := r.Header.Get("IM-CustomerNumber"); customer != "" {
			fields = append(fields, "customer", customer)
		}
		if rec.status >= http.StatusInternalServerError {
			logger.Warnw("got incoming HTTP request", fields...)
			return
		}
		logger.Infow("got incoming HTTP request", fields...)
	})
}
