// Package httpd serves metrics and runtime state of the driver.
package httpd

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// Stats is the body of /stats.
type Stats struct {
	Sensor    string `json:"sensor"`
	Session   string `json:"session"`
	OK        uint64 `json:"ok"`
	Errors    uint64 `json:"errors"`
	Buffer    uint32 `json:"buffer"`
	Rotations uint64 `json:"rotations"`
}

// Server serves /metrics, /healthz and /stats.
type Server struct {
	Addr     string
	Gatherer prometheus.Gatherer
	Stats    func() Stats
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)
	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/stats", s.handleStats)
	return r
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats Stats
	if s.Stats != nil {
		stats = s.Stats()
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&stats); err != nil {
		glog.Warningf("write stats: %v", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		glog.V(2).Infof("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("serving metrics on %s", s.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return ctx.Err()
}
