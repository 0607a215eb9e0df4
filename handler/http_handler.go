package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"github.com/digimidich/fmp-query-ai/config"
	"github.com/digimidich/fmp-query-ai/filemaker"
	"github.com/digimidich/fmp-query-ai/logging"
	"github.com/digimidich/fmp-query-ai/resolver"
	"github.com/digimidich/fmp-query-ai/translator"
	"github.com/digimidich/fmp-query-ai/web"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"io"
	"net/http"
	"net/url"
)

const (
	maxBodyBytes = 1 << 20
	allowMethods = "GET, POST, OPTIONS"
	allowHeaders = "Content-Type, Authorization"
)

// Relay sends a resolved payload to FileMaker.
type Relay interface {
	CheckCredentials() error
	Forward(ctx context.Context, payload filemaker.UpstreamPayload) (*filemaker.Result, error)
}

// HTTPHandler serves the search API, health check and frontend.
type HTTPHandler struct {
	AllowedOrigin string
	Resolver      *resolver.Resolver
	Relay         Relay

	handler http.Handler
}

// NewHTTPHandler creates a new instance of HTTPHandler
func NewHTTPHandler(cfg *config.Config, res *resolver.Resolver, relay Relay) *HTTPHandler {
	h := &HTTPHandler{
		AllowedOrigin: cfg.AllowedOrigin,
		Resolver:      res,
		Relay:         relay,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/filemaker", h.handleFileMaker).Methods(http.MethodPost)
	router.HandleFunc("/api/filemaker", h.handlePreflight).Methods(http.MethodOptions)
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/", web.Handler(cfg.StaticDir)).Methods(http.MethodGet, http.MethodHead)

	c := cors.New(cors.Options{
		AllowedOrigins:     []string{cfg.AllowedOrigin},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials:   false,
		OptionsPassthrough: true,
	})
	h.handler = c.Handler(withRequestLog(withRecovery(router)))
	return h
}

// ServeHTTP implements the http.Handler interface for HTTPHandler.
func (h *HTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.handler.ServeHTTP(w, r)
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true})
}

func (h *HTTPHandler) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", h.AllowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", allowMethods)
	w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleFileMaker(w http.ResponseWriter, r *http.Request) {
	// Checked first so a missing credential never costs a language-model call.
	if err := h.Relay.CheckCredentials(); err != nil {
		logAndReturnError(w, r, err.Error(), http.StatusInternalServerError, nil)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logAndReturnError(w, r, "Bad Request: unable to read body", http.StatusBadRequest, err)
		return
	}
	var incoming resolver.IncomingRequest
	// An empty body means no constraints, like an empty object.
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &incoming); err != nil {
			logAndReturnError(w, r, "Bad Request: invalid JSON", http.StatusBadRequest, err)
			return
		}
	}

	mode := resolver.Classify(incoming)
	if mode == resolver.ModeTranslate {
		requestLog(r).Infof("⇢ search | mode=%s | query='%s'", mode, logging.Truncate(*incoming.Query, logging.QueryLogLimit))
	} else {
		requestLog(r).Debugf("⇢ search | mode=%s", mode)
	}

	payload, err := h.Resolver.Resolve(r.Context(), incoming)
	switch {
	case err == nil:
	case errors.Is(err, resolver.ErrTranslationUnavailable):
		logAndReturnError(w, r, err.Error(), http.StatusBadRequest, nil)
		return
	case errors.Is(err, translator.ErrUnreachable):
		logAndReturnError(w, r, "Upstream error", http.StatusBadGateway, err, failureReason(err))
		return
	default:
		logAndReturnError(w, r, "Internal Server Error", http.StatusInternalServerError, err)
		return
	}

	res, err := h.Relay.Forward(r.Context(), payload)
	switch {
	case err == nil:
	case errors.Is(err, filemaker.ErrMissingCredential):
		logAndReturnError(w, r, err.Error(), http.StatusInternalServerError, nil)
		return
	case errors.Is(err, filemaker.ErrUpstream):
		logAndReturnError(w, r, "Upstream error", http.StatusBadGateway, err, failureReason(err))
		return
	default:
		logAndReturnError(w, r, "Internal Server Error", http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(res.StatusCode)
	if _, err := w.Write(res.Body); err != nil {
		requestLog(r).Debugf("client went away while relaying: %v", err)
	}
}

// failureReason digs the transport error out of the *url.Error the HTTP client returns.
func failureReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
