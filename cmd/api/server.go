package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	"github.com/mcclellann/simpleloan/pkg/ledger"
	"github.com/mcclellann/simpleloan/pkg/metrics"
	"github.com/mcclellann/simpleloan/pkg/store"
	"github.com/shopspring/decimal"
)

func init() {
	// Currency figures go out as JSON numbers, as API clients expect.
	decimal.MarshalJSONWithoutQuotes = true
}

// Server holds the ledger and everything the HTTP layer needs around it.
type Server struct {
	ledger        *ledger.Ledger
	storage       store.Storage // Keep a reference to the storage to close it
	logger        *slog.Logger
	metrics       *metrics.Metrics
	allowedOrigin string
	staticDir     string
}

func NewServer(s store.Storage, l *ledger.Ledger, logger *slog.Logger, m *metrics.Metrics) *Server {
	return &Server{
		ledger:        l,
		storage:       s,
		logger:        logger,
		metrics:       m,
		allowedOrigin: "*",
	}
}

// Routes builds the full handler: API routes, health, metrics and, when a
// static directory is configured, the single-page client.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/loans", s.createLoanHandler).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loan_id}/payments", s.recordPaymentHandler).Methods(http.MethodPost)
	api.HandleFunc("/loans/{loan_id}/ledger", s.getLedgerHandler).Methods(http.MethodGet)
	api.HandleFunc("/customers", s.listCustomersHandler).Methods(http.MethodGet)
	api.HandleFunc("/customers/{customer_id}/overview", s.accountOverviewHandler).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})

	router.HandleFunc("/api/health", s.healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	if s.staticDir != "" {
		router.PathPrefix("/").Handler(spaHandler{staticPath: s.staticDir, indexPath: "index.html"})
	}

	router.Use(metricsMiddleware(s.metrics))
	return corsMiddleware(s.allowedOrigin)(loggingMiddleware(s.logger)(router))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// spaHandler serves files from staticPath and falls back to the index page for
// any path that is not a file, so client-side routes resolve.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))

	fi, err := os.Stat(path)
	if os.IsNotExist(err) || (err == nil && fi.IsDir()) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	} else if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}
