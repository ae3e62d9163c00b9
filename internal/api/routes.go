package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/parameters/default", s.handleDefaultParameters).Methods(http.MethodGet)
	v1.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodPost)
	v1.HandleFunc("/epoch", s.handleEpoch).Methods(http.MethodPost)
	v1.HandleFunc("/monthly", s.handleMonthly).Methods(http.MethodPost)
	v1.HandleFunc("/tiers/rebalance", s.handleRebalance).Methods(http.MethodPost)
	v1.HandleFunc("/power-law", s.handlePowerLaw).Methods(http.MethodGet)
	v1.HandleFunc("/supply", s.handleSupply).Methods(http.MethodGet)
	v1.HandleFunc("/budget/presets", s.handleBudgetPresets).Methods(http.MethodGet)
	v1.HandleFunc("/budget", s.handleBudget).Methods(http.MethodPost)
	v1.HandleFunc("/budget/burn-curve", s.handleBurnCurve).Methods(http.MethodGet)
	v1.HandleFunc("/report", s.handleReport).Methods(http.MethodPost)
	v1.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)
	v1.HandleFunc("/live", s.handleLive).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})
	return r
}

// instrument records request count and latency by route template.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.metrics.RecordHTTP(route, r.Method, strconv.Itoa(rec.status), time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets WebSocket upgrades pass through the recorder.
func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
