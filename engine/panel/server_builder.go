package panel

import (
	"io"
	"net/http"
	"time"
)

// ServerBuilderOption is a functional option for configuring a Server.
type ServerBuilderOption func(*Server)

// WithTimeout sets how long a request waits for the render loop to run a panel call.
//
// Parameters:
//   - d: the wait limit
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithTimeout(d time.Duration) ServerBuilderOption {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogWriter sets the destination of the request log.
//
// Parameters:
//   - w: the writer receiving one line per request
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithLogWriter(w io.Writer) ServerBuilderOption {
	return func(s *Server) {
		if w != nil {
			s.logWriter = w
		}
	}
}

// WithCheckOrigin overrides the websocket origin check. The default rejects cross-origin upgrades.
//
// Parameters:
//   - fn: returns true to accept the upgrade request
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithCheckOrigin(fn func(r *http.Request) bool) ServerBuilderOption {
	return func(s *Server) {
		s.upgrader.CheckOrigin = fn
	}
}
