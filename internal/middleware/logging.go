package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// Logging emits one structured line per request. Error responses get
// their envelope's error code attached so a 4xx in the log can be
// matched to a cause without replaying the request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(rec, r)

		logFn := slog.Info
		if rec.status >= 400 {
			logFn = slog.Warn
		}
		if rec.status >= 500 {
			logFn = slog.Error
		}

		attrs := []any{
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(started).Milliseconds(),
			"client_ip", r.RemoteAddr,
		}
		if code := rec.errorCode(); code != "" {
			attrs = append(attrs, "error_code", code)
		}

		logFn("request", attrs...)
	})
}

// statusRecorder remembers the status code and, for error responses,
// buffers the body so the error code can be pulled out afterwards.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	errBody     bytes.Buffer
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.wroteHeader {
		return
	}
	rec.status = code
	rec.wroteHeader = true
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status >= 400 {
		rec.errBody.Write(b)
	}
	return rec.ResponseWriter.Write(b)
}

func (rec *statusRecorder) errorCode() string {
	if rec.status < 400 || rec.errBody.Len() == 0 {
		return ""
	}

	var envelope struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.errBody.Bytes(), &envelope); err != nil || envelope.Error == nil {
		return ""
	}
	return envelope.Error.Code
}
