package devserver

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/reactor/internal/demo"
	"github.com/vango-dev/reactor/internal/telemetry"
	"github.com/vango-dev/reactor/pkg/memdom"
	"github.com/vango-dev/reactor/pkg/protocol"
	"github.com/vango-dev/reactor/pkg/renderer"
	"github.com/vango-dev/reactor/pkg/scheduler"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = protocol.FrameHeaderSize + 64*1024

	// opsPerFrame keeps an ops frame under MaxPayloadSize for ordinary
	// attribute and text sizes.
	opsPerFrame = 2048
)

var sessionIDs atomic.Uint64

// session is one websocket connection and the app instance behind it.
type session struct {
	id      uint64
	conn    *websocket.Conn
	logger  *slog.Logger
	metrics *telemetry.Metrics

	doc   *memdom.Document
	r     *renderer.Renderer
	loop  *scheduler.Loop
	state *demo.State

	ctx context.Context
	out chan []byte
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	sess := s.newSession(conn)
	sess.serve(context.Background())
}

func (s *Server) newSession(conn *websocket.Conn) *session {
	id := sessionIDs.Add(1)
	logger := s.logger.With("session", id)
	sess := &session{
		id:      id,
		conn:    conn,
		logger:  logger,
		metrics: s.metrics(),
		state:   s.newState(),
		ctx:     context.Background(),
		out:     make(chan []byte, 16),
	}

	qopts := []scheduler.Option{
		scheduler.WithLogger(logger),
		scheduler.WithMaxPasses(s.cfg.Scheduler.MaxPasses),
	}
	if s.observer != nil {
		qopts = append(qopts, scheduler.WithObserver(s.observer.Fork()))
	}
	q := scheduler.NewQueue(qopts...)

	sess.doc = memdom.NewDocument(memdom.WithLogger(logger))
	sess.r = renderer.New(
		telemetry.NewCountingHost(sess.doc, sess.metrics),
		renderer.WithQueue(q),
		renderer.WithLogger(logger),
	)
	sess.loop = scheduler.NewLoop(q,
		scheduler.WithLoopLogger(logger),
		scheduler.WithFlushHook(func(error) { sess.pushOps(0) }),
	)
	return sess
}

// serve runs the session until the client disconnects.
func (sess *session) serve(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	sess.ctx = ctx
	defer sess.conn.Close()

	sess.metrics.SessionOpened()
	defer sess.metrics.SessionClosed()
	sess.logger.Info("session started")

	go func() { _ = sess.loop.Run(ctx) }()
	go sess.writeLoop(ctx, cancel)

	_ = sess.loop.Dispatch(ctx, func() {
		demo.Render(sess.r, sess.state, sess.doc.Body)
		sess.pushOps(protocol.FlagInitial)
	})

	sess.readLoop(ctx)

	done := make(chan struct{})
	if err := sess.loop.Dispatch(ctx, func() {
		sess.r.Render(nil, sess.doc.Body)
		close(done)
	}); err == nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	sess.logger.Info("session closed")
}

// readLoop decodes frames until the connection fails.
func (sess *session) readLoop(ctx context.Context) {
	sess.conn.SetReadLimit(maxMessageSize)
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				sess.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			sess.logger.Error("frame decode error", "error", err)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				sess.logger.Error("event decode error", "error", err)
				sess.sendError(ctx, "invalid event")
				continue
			}
			if err := sess.loop.Dispatch(ctx, func() {
				n := sess.doc.DispatchByID(ev.Node, ev.Type, ev.Value)
				sess.metrics.Event(ev.Type, n > 0)
			}); err != nil {
				return
			}

		case protocol.FrameError:
			msg, _ := protocol.DecodeError(frame.Payload)
			sess.logger.Warn("client error", "message", msg)

		default:
			sess.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// writeLoop is the only writer on the connection.
func (sess *session) writeLoop(ctx context.Context, cancel context.CancelFunc) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-sess.out:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.BinaryMessage, msg); err != nil {
				sess.logger.Warn("write failed", "error", err)
				cancel()
				sess.conn.Close()
				return
			}

		case <-ticker.C:
			if err := sess.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				cancel()
				sess.conn.Close()
				return
			}

		case <-ctx.Done():
			sess.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// pushOps sends the journal collected since the last push. It runs on the
// loop goroutine.
func (sess *session) pushOps(flags protocol.FrameFlags) {
	ops := sess.doc.TakeOps()
	if len(ops) == 0 && flags == 0 {
		return
	}
	for len(ops) > 0 || flags != 0 {
		n := min(len(ops), opsPerFrame)
		payload, err := protocol.EncodeOps(ops[:n])
		if err != nil {
			sess.logger.Error("ops encode error", "error", err)
			return
		}
		frame := &protocol.Frame{Type: protocol.FrameOps, Flags: flags, Payload: payload}
		data, err := frame.Encode()
		if err != nil {
			sess.logger.Error("frame encode error", "error", err, "ops", n)
			return
		}
		select {
		case sess.out <- data:
		case <-sess.ctx.Done():
			return
		}
		ops = ops[n:]
		flags = 0
	}
}

func (sess *session) sendError(ctx context.Context, msg string) {
	data, err := protocol.NewFrame(protocol.FrameError, protocol.EncodeError(msg)).Encode()
	if err != nil {
		return
	}
	select {
	case sess.out <- data:
	case <-ctx.Done():
	}
}
