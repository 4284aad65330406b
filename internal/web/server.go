// Package web provides the admin HTTP interface for the growroom daemon:
// a status page, a JSON endpoint, and a manual relay override form.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/keegan/growroom/internal/control"
	"github.com/keegan/growroom/internal/status"
)

// Overrider accepts manual relay commands. Satisfied by the control loop.
type Overrider interface {
	Override(control.Override) error
}

// Server serves the status page and override endpoint over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	overrider  Overrider
}

// New creates a Server that reads state from the given tracker and
// forwards overrides to the given Overrider.
func New(addr string, tracker *status.Tracker, overrider Overrider) *Server {
	s := &Server{tracker: tracker, overrider: overrider}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/status.json", s.handleJSON)
	mux.HandleFunc("/relay", s.handleRelay)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	relay := r.PostFormValue("relay")
	if relay != "relay1" && relay != "relay2" {
		http.Error(w, "unknown relay", http.StatusBadRequest)
		return
	}
	var on bool
	switch r.PostFormValue("state") {
	case "on":
		on = true
	case "off":
		on = false
	default:
		http.Error(w, "state must be on or off", http.StatusBadRequest)
		return
	}

	if err := s.overrider.Override(control.Override{Relay: relay, On: on}); err != nil {
		http.Error(w, "override rejected: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
