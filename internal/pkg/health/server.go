package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// JobStatus is the last known outcome of one scheduled job.
type JobStatus struct {
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

var (
	mu        sync.Mutex
	startedAt = time.Now()
	jobs      = make(map[string]JobStatus)
)

// RecordJobRun stores the outcome of a job run for the /health snapshot.
func RecordJobRun(name string, err error) {
	mu.Lock()
	defer mu.Unlock()

	st := JobStatus{LastRun: time.Now().UTC()}
	if err != nil {
		st.LastError = err.Error()
	}
	jobs[name] = st
}

func snapshot() map[string]JobStatus {
	mu.Lock()
	defer mu.Unlock()

	out := make(map[string]JobStatus, len(jobs))
	for k, v := range jobs {
		out[k] = v
	}
	return out
}

// Run starts the health endpoint in the background and shuts it down when ctx
// is cancelled. Port <= 0 disables the server.
func Run(ctx context.Context, port int, service string, readHeaderTimeout time.Duration) {
	if port <= 0 {
		slog.Info("Health server disabled", "service", service)
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"service": service,
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"jobs":    snapshot(),
		})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
}
