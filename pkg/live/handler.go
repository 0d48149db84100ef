package live

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	aerrors "github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/hydrate"
)

// Observer receives session lifecycle events. telemetry.Metrics satisfies it.
type Observer interface {
	SessionOpened()
	SessionClosed()
	MutationsSent(n int)
}

type nopObserver struct{}

func (nopObserver) SessionOpened()    {}
func (nopObserver) SessionClosed()    {}
func (nopObserver) MutationsSent(int) {}

// Config holds connection limits.
type Config struct {
	// ReadTimeout is how long the connection may stay idle.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// MaxMessageSize is the largest client message accepted, in bytes.
	MaxMessageSize int64

	// CheckOrigin validates the Origin header. Nil accepts same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the limits used when none are given.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 64 * 1024,
	}
}

// Handler upgrades requests to WebSocket and serves one Session per
// connection.
type Handler struct {
	factory  hydrate.Factory
	config   Config
	logger   *slog.Logger
	observer Observer
	opts     []hydrate.Option
	upgrader websocket.Upgrader
}

// Option configures a Handler.
type Option func(*Handler)

// WithConfig replaces the connection limits.
func WithConfig(c Config) Option {
	return func(h *Handler) {
		h.config = c
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver reports session lifecycle events to o.
func WithObserver(o Observer) Option {
	return func(h *Handler) {
		if o != nil {
			h.observer = o
		}
	}
}

// WithSessionOptions passes options to every session's initial render.
func WithSessionOptions(opts ...hydrate.Option) Option {
	return func(h *Handler) {
		h.opts = append(h.opts, opts...)
	}
}

// NewHandler returns a Handler rendering factory for each connection.
func NewHandler(factory hydrate.Factory, opts ...Option) *Handler {
	h := &Handler{
		factory:  factory,
		config:   DefaultConfig(),
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.config.CheckOrigin,
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already replied with an HTTP error.
		ae := aerrors.New("E062").Wrap(err)
		h.logger.Warn(ae.Message, ae.LogAttrs()...)
		return
	}
	defer conn.Close()
	if h.config.MaxMessageSize > 0 {
		conn.SetReadLimit(h.config.MaxMessageSize)
	}

	opts := append([]hydrate.Option{hydrate.WithLogger(h.logger)}, h.opts...)
	session := NewSession(r.Context(), h.factory, opts...)
	logger := h.logger.With("session", session.ID())

	h.observer.SessionOpened()
	logger.Info("live session opened", "outcome", string(session.Outcome()))
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("session dispose failed", "error", err)
		}
		h.observer.SessionClosed()
		logger.Info("live session closed")
	}()

	if err := h.send(conn, session.Flush()); err != nil {
		logger.Warn("initial frame failed", "error", err)
		return
	}

	for {
		if h.config.ReadTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))
		}
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				logger.Error("read error", "error", err)
			}
			return
		}

		write, err := DecodeWrite(msg)
		if err == nil {
			err = session.Apply(write)
		}
		frame := session.Flush()
		if err != nil {
			frame.Error = frameError(err)
			logger.Warn("write rejected", logAttrs(err)...)
		}
		if err := h.send(conn, frame); err != nil {
			logger.Warn("frame write failed", "error", err)
			return
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, f Frame) error {
	if h.config.WriteTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
	}
	if err := conn.WriteJSON(f); err != nil {
		return aerrors.New("E062").Wrap(err)
	}
	h.observer.MutationsSent(len(f.Mutations))
	return nil
}

func logAttrs(err error) []any {
	var ae *aerrors.AnchorError
	if errors.As(err, &ae) {
		return ae.LogAttrs()
	}
	return []any{"error", err.Error()}
}
