package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/portfolio/pkg/logger"
	"github.com/okian/portfolio/pkg/metrics"
)

// HTTP status code constants.
const (
	statusBadRequest      = 400
	statusNotFound        = 404
	statusTooManyRequests = 429
	statusInternalError   = 500
)

var (
	corsAllowedMethods = strings.Join([]string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsAllowedHeaders = "Accept, Authorization, Content-Type, X-Requested-With"
)

// CORS allows every origin and answers every OPTIONS request with 204.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				w.Header().Set("Access-Control-Allow-Headers", reqHeaders)
			} else {
				w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			}
			w.Header().Set("Vary", "Access-Control-Request-Headers")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccessLog logs one line per request and records the request in the
// Prometheus HTTP metrics. The request ID is echoed in X-Request-ID.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := chiMiddleware.GetReqID(r.Context())

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			if requestID != "" {
				ww.Header().Set("X-Request-ID", requestID)
			}

			metrics.IncInFlight()
			defer metrics.DecInFlight()

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			endpoint := endpointLabel(r, status)
			recordRequest(endpoint, r.Method, status, duration)

			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", status),
				logger.Duration("duration", duration),
				logger.Int("bytes", ww.BytesWritten()),
				logger.String("remote_addr", r.RemoteAddr),
			}
			switch {
			case status >= statusInternalError:
				log.Error(r.Context(), "http request", fields...)
			case status >= statusBadRequest:
				log.Warn(r.Context(), "http request", fields...)
			default:
				log.Info(r.Context(), "http request", fields...)
			}
		})
	}
}

// endpointLabel keeps metric cardinality bounded: matched routes use their
// pattern, everything else collapses into a fixed label.
func endpointLabel(r *http.Request, status int) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	if status == statusNotFound {
		return "not_found"
	}
	return "static"
}

func recordRequest(endpoint, method string, status int, duration time.Duration) {
	durationMs := float64(duration.Milliseconds())
	statusCodeStr := strconv.Itoa(status)

	metrics.RecordHTTPRequest(endpoint, method, statusCodeStr)
	metrics.RecordHTTPRequestDuration(endpoint, method, statusCodeStr, durationMs)

	if status >= statusBadRequest {
		errorType := getErrorType(status)
		metrics.RecordErrorByEndpoint(endpoint, method, errorType)
		metrics.RecordErrorByType(errorType, getErrorSeverity(status))
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "server_error"
	case statusCode == statusTooManyRequests:
		return "rate_limit"
	case statusCode == statusNotFound:
		return "not_found"
	case statusCode >= statusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// getErrorSeverity returns error severity based on HTTP status code.
func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode >= statusInternalError:
		return "high"
	case statusCode >= statusBadRequest:
		return "medium"
	default:
		return "low"
	}
}

// Recoverer turns a handler panic into a call to onError. Aborted
// handlers are re-panicked so net/http can drop the connection.
func Recoverer(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as panic value
					panic(rec)
				}
				onError(w, r, fmt.Errorf("%w: %v", ErrPanic, rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type bodyFieldsKey struct{}

// BodyFields returns the fields decoded by BodyParser, or nil when the
// request carried no parseable body.
func BodyFields(ctx context.Context) map[string]any {
	fields, _ := ctx.Value(bodyFieldsKey{}).(map[string]any)
	return fields
}

// BodyParser decodes JSON and urlencoded form bodies into a field map on
// the request context. Malformed bodies get a 400 envelope and oversized
// ones a 413 before any handler runs.
func BodyParser(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kind := bodyKind(r)
			if kind == "" || r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			fields, raw, err := parseBody(w, r, kind, maxBytes)
			switch {
			case errors.Is(err, ErrBodyTooLarge):
				writeMessage(w, http.StatusRequestEntityTooLarge, false, MsgBodyTooLarge)
				return
			case err != nil:
				writeMessage(w, http.StatusBadRequest, false, MsgBadBody)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bodyFieldsKey{}, fields)))
		})
	}
}

const (
	bodyJSON = "json"
	bodyForm = "form"
)

func bodyKind(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return bodyJSON
	case mediaType == "application/x-www-form-urlencoded":
		return bodyForm
	default:
		return ""
	}
}

func parseBody(w http.ResponseWriter, r *http.Request, kind string, maxBytes int64) (map[string]any, []byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, ErrBodyTooLarge
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrBadBody, err)
	}

	fields := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return fields, raw, nil
	}

	switch kind {
	case bodyJSON:
		// Any well-formed JSON is accepted; only an object yields fields.
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrBadBody, err)
		}
		if obj, ok := doc.(map[string]any); ok {
			fields = obj
		}
	case bodyForm:
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrBadBody, err)
		}
		for k, v := range values {
			if len(v) > 0 {
				fields[k] = v[0]
			}
		}
	}
	return fields, raw, nil
}
