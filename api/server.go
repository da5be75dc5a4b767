package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Server exposes the gateway's latest numbers as read-only plain text endpoints:
//
//	GET /api/v1/power - current net power in kW
//	GET /api/v1/usage - net energy used today in kWh
type Server struct {
	server *http.Server
	status *Status
	logger *slog.Logger
}

func NewServer(addr string, status *Status) *Server {
	s := &Server{
		status: status,
		logger: slog.Default().With("component", "api", "addr", addr),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/power", s.handlePower)
	mux.HandleFunc("/api/v1/usage", s.handleUsage)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	return s
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving HTTP API")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handlePower(w http.ResponseWriter, r *http.Request) {
	writeNumber(w, r, s.status.Power())
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	writeNumber(w, r, s.status.DayTotal())
}

func writeNumber(w http.ResponseWriter, r *http.Request, value float64) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(strconv.FormatFloat(value, 'f', -1, 64)))
}
