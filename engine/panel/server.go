package panel

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

//go:embed assets/panel.html
var panelPage []byte

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// errDispatchTimeout is returned when the render loop does not run a panel call in time.
var errDispatchTimeout = errors.New("render loop did not respond")

// Server exposes a Panel over HTTP and a websocket.
// Every panel access runs through the dispatcher so bindings only ever execute on the render loop.
type Server struct {
	panel      *Panel
	dispatcher common.Dispatcher
	timeout    time.Duration
	logWriter  io.Writer

	router   *mux.Router
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*wsClient]bool
	listener net.Listener
	http     *http.Server
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// inputMessage is what the front-end sends for a widget change.
type inputMessage struct {
	ID    string          `json:"id"`
	Value json.RawMessage `json:"value"`
}

// NewServer creates a panel server. Nothing listens until Start is called; Handler can be
// mounted elsewhere instead.
//
// Parameters:
//   - p: the panel to serve
//   - dispatcher: runs panel reads and writes on the render loop
//   - options: functional options to configure the server
//
// Returns:
//   - *Server: the server
func NewServer(p *Panel, dispatcher common.Dispatcher, options ...ServerBuilderOption) *Server {
	s := &Server{
		panel:      p,
		dispatcher: dispatcher,
		timeout:    2 * time.Second,
		logWriter:  os.Stdout,
		clients:    make(map[*wsClient]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if s.dispatcher == nil {
		s.dispatcher = func(fn func()) { fn() }
	}
	for _, option := range options {
		option(s)
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/panel", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/widgets/{id}", s.handleInput).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleWebsocket)
	s.router = r
	return s
}

// Handler returns the router wrapped with panic recovery and request logging.
func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.router)
	return handlers.LoggingHandler(s.logWriter, h)
}

// Start listens on addr and serves in the background.
//
// Parameters:
//   - addr: the listen address, e.g. "127.0.0.1:8088"
//
// Returns:
//   - error: error if the address cannot be bound
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "panel: failed to listen on %s", addr)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	s.mu.Lock()
	s.listener = ln
	s.http = srv
	s.mu.Unlock()

	log.Printf("[Panel] serving on http://%s", ln.Addr())
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Panel] server stopped: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the HTTP server and closes websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Broadcast sends the current snapshot to every websocket client.
// Safe to call from any goroutine; the snapshot is taken on the render loop.
func (s *Server) Broadcast() {
	snap, err := s.snapshot(context.Background())
	if err != nil {
		log.Printf("[Panel] broadcast skipped: %v", err)
		return
	}
	s.broadcast(snap)
}

func (s *Server) broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[Panel] failed to encode snapshot: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client; it will catch up with the next broadcast
		}
	}
}

// call runs fn on the render loop and waits for it.
func (s *Server) call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	s.dispatcher(func() {
		defer close(done)
		fn()
	})

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case <-done:
		return nil
	case <-timer.C:
		return errDispatchTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	if err := s.call(ctx, func() { snap = s.panel.Snapshot() }); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// apply runs a widget input on the render loop and returns the resulting snapshot.
func (s *Server) apply(ctx context.Context, id string, value json.RawMessage) (Snapshot, error) {
	var snap Snapshot
	var applyErr error
	if err := s.call(ctx, func() {
		if applyErr = s.panel.Apply(id, value); applyErr == nil {
			snap = s.panel.Snapshot()
		}
	}); err != nil {
		return Snapshot{}, err
	}
	return snap, applyErr
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(panelPage)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	if len(body.Value) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("missing value"))
		return
	}

	snap, err := s.apply(r.Context(), id, body.Value)
	switch {
	case errors.Is(err, ErrUnknownWidget):
		writeError(w, http.StatusNotFound, err)
		return
	case errors.Is(err, errDispatchTimeout):
		writeError(w, http.StatusServiceUnavailable, err)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.broadcast(snap)
	writeJSON(w, snap)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Panel] websocket upgrade failed: %v", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, 32)}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		log.Printf("[Panel] initial snapshot failed: %v", err)
		conn.Close()
		return
	}
	data, _ := json.Marshal(snap)
	c.send <- data

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	go s.writePump(c)
	s.readPump(c)
}

// readPump applies widget input from one client until the connection closes.
func (s *Server) readPump(c *wsClient) {
	defer s.unregister(c)
	for {
		var msg inputMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[Panel] websocket read error: %v", err)
			}
			return
		}
		snap, err := s.apply(context.Background(), msg.ID, msg.Value)
		if err != nil {
			log.Printf("[Panel] rejected input for %q: %v", msg.ID, err)
			continue
		}
		s.broadcast(snap)
	}
}

func (s *Server) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("[Panel] websocket write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) unregister(c *wsClient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
