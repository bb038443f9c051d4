// Package stream serves a running simulation over websockets. Every tick is
// broadcast to connected clients as a JSON snapshot.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/orrery/internal/metrics"
	"github.com/san-kum/orrery/internal/sim"
	"golang.org/x/time/rate"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer snapshots are queued per client before frames are dropped.
	sendBuffer = 16
)

var ErrInvalidFPS = errors.New("stream: fps must be positive")

type Options struct {
	// FPS is the number of ticks simulated and broadcast per second.
	FPS float64
	// Trails includes trajectory samples in every frame.
	Trails bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	opts      Options
	collector *metrics.Collector
	limiter   *rate.Limiter
	upgrader  websocket.Upgrader

	simMu sync.Mutex
	sim   *sim.Simulator

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New wraps s. The collector may be nil; when set it observes every tick and
// is served on /metrics.
func New(s *sim.Simulator, collector *metrics.Collector, opts Options) (*Server, error) {
	if !(opts.FPS > 0) {
		return nil, ErrInvalidFPS
	}
	if collector != nil {
		s.AddObserver(collector)
	}
	return &Server{
		opts:      opts,
		collector: collector,
		limiter:   rate.NewLimiter(rate.Limit(opts.FPS), 1),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sim:     s,
		clients: make(map[*client]struct{}),
	}, nil
}

// Handler routes /ws, /snapshot and, with a collector, /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	if s.collector != nil {
		mux.Handle("/metrics", s.collector.Handler())
	}
	return mux
}

// Run ticks the simulation at the configured rate until ctx is done, the
// simulation fails, or steps ticks have run. steps <= 0 runs forever.
func (s *Server) Run(ctx context.Context, steps int) error {
	defer s.closeAll()
	for i := 0; steps <= 0 || i < steps; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		start := time.Now()
		s.simMu.Lock()
		err := s.sim.Tick()
		snap := s.sim.Snapshot()
		s.simMu.Unlock()
		if s.collector != nil {
			s.collector.RecordTickDuration(time.Since(start))
		}
		if err != nil {
			return err
		}

		if err := s.broadcast(snap); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) frame(snap sim.Snapshot) ([]byte, error) {
	if !s.opts.Trails {
		for i := range snap.Bodies {
			snap.Bodies[i].Trajectory = nil
		}
	}
	return json.Marshal(snap)
}

func (s *Server) broadcast(snap sim.Snapshot) error {
	data, err := s.frame(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow reader; drop the frame rather than stall the tick loop
		}
	}
	return nil
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	s.simMu.Lock()
	snap := s.sim.Snapshot()
	s.simMu.Unlock()

	data, err := s.frame(snap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade from %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	if s.collector != nil {
		s.collector.ClientConnected()
	}
	log.Printf("client %s connected", r.RemoteAddr)

	go s.writeLoop(c)
	s.readLoop(c)

	s.remove(c)
	log.Printf("client %s disconnected", r.RemoteAddr)
}

// readLoop discards client messages and returns once the connection closes.
func (s *Server) readLoop(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	if ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	if ok && s.collector != nil {
		s.collector.ClientDisconnected()
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.remove(c)
	}
}

// ListenAndServe serves the handler on addr and runs the simulation until
// ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string, steps int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		log.Printf("serving on %s (ws: /ws, snapshot: /snapshot)", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx, steps) }()

	var err error
	select {
	case err = <-errc:
		cancel()
		<-runErr
	case err = <-runErr:
		if err == nil {
			// finite run finished; keep serving the final state until ctx ends
			<-ctx.Done()
		}
	case <-ctx.Done():
		err = <-runErr
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Printf("shutdown: %v", serr)
	}
	return err
}
