package handler

import (
	"context"
	"encoding/json"
	"github.com/sirupsen/logrus"
	"net/http"
)

type contextKey string

const requestIDKey = contextKey("requestID")

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func requestLog(r *http.Request) *logrus.Entry {
	return log.WithField("request_id", requestID(r.Context()))
}

func logRequest(r *http.Request, status int, fields logrus.Fields) {
	requestLog(r).WithFields(fields).Infof("%s -- %s -- %s -- %d", r.RemoteAddr, r.Method, r.URL.Path, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// logAndReturnError logs err (or the response message when err is nil) and writes a JSON error.
// detail is optional and is sent to the caller for diagnostics.
func logAndReturnError(w http.ResponseWriter, r *http.Request, httpResponseStr string, code int, err error, detail ...string) {
	entry := requestLog(r).WithField("status", code)
	if err != nil {
		entry.Errorf("%s: %v", httpResponseStr, err)
	} else {
		entry.Errorln(httpResponseStr)
	}
	resp := errorResponse{Error: httpResponseStr}
	if len(detail) > 0 {
		resp.Detail = detail[0]
	}
	writeJSON(w, code, resp)
}
