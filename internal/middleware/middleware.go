package middleware

import (
	"net/http"
	"strconv"

	"github.com/rkandala/newsrag/internal/metrics"
	"github.com/rkandala/newsrag/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

// Wrap runs trace injection, auth and the per-IP rate limiter before
// the handler, and records request metrics after it.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200}
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")

	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re = rateLimiter(re)
	return re
}
