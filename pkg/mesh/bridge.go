package mesh

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	bridgeTransport = "bridge"
	writeTimeout    = 10 * time.Second
)

type BridgeOptions struct {
	ReconnectWait time.Duration
	MaxTextBytes  int
}

// Bridge is a Transport talking to a mesh gateway, e.g. a Meshtastic serial or TCP bridge, over a websocket.
type Bridge struct {
	logger  *zap.Logger
	url     string
	options BridgeOptions
	nextID  atomic.Uint64

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

var _ Transport = &Bridge{}

// DialBridge connects to the gateway. Failing to connect here is fatal for the caller,
// later disconnections are handled by Run.
func DialBridge(ctx context.Context, logger *zap.Logger, endpoint string, options BridgeOptions) (*Bridge, error) {
	if options.ReconnectWait <= 0 {
		options.ReconnectWait = 5 * time.Second
	}
	b := &Bridge{
		logger:  logger,
		url:     endpoint,
		options: options,
	}
	conn, err := b.dial(ctx)
	if err != nil {
		return nil, err
	}
	b.conn = conn
	return b, nil
}

func (b *Bridge) dial(ctx context.Context) (*websocket.Conn, error) {
	endpointUrl, err := url.Parse(b.url)
	if err != nil {
		return nil, errors.Wrap(err, "bridge url")
	}
	switch endpointUrl.Scheme {
	case "http":
		endpointUrl.Scheme = "ws"
	case "https":
		endpointUrl.Scheme = "wss"
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpointUrl.String(), http.Header{})
	if err != nil {
		return nil, errors.Wrapf(err, "dial mesh bridge %v", endpointUrl.Redacted())
	}
	return conn, nil
}

// Run reads frames until ctx is done, reconnecting after connection failures.
func (b *Bridge) Run(ctx context.Context, handler Handler) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.Close()
		case <-done:
		}
	}()
	for {
		conn := b.current()
		if conn == nil {
			return nil
		}
		err := b.readLoop(ctx, conn, handler)
		if ctx.Err() != nil {
			return nil
		}
		b.logger.Warn("mesh bridge connection lost", zap.Error(err))
		conn.Close()
		if !b.reconnect(ctx) {
			return nil
		}
	}
}

func (b *Bridge) readLoop(ctx context.Context, conn *websocket.Conn, handler Handler) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		f, err := decodeFrame(msg)
		if err != nil {
			b.logger.Warn("bad frame from mesh bridge", zap.Error(err), zap.ByteString("frame", msg))
			continue
		}
		switch f.Type {
		case frameText:
			messagesCounter.WithLabelValues(bridgeTransport, "in").Inc()
			handler(ctx, Message{From: f.From, To: f.To, Channel: f.Channel, Text: f.Text})
		case frameAck:
			b.logger.Debug("packet acknowledged", zap.Uint64("id", f.ID))
		case frameNak:
			naksCounter.Inc()
			b.logger.Warn("packet not delivered", zap.Uint64("id", f.ID), zap.String("error", f.Error))
		default:
			b.logger.Debug("ignoring frame", zap.String("type", f.Type))
		}
	}
}

func (b *Bridge) reconnect(ctx context.Context) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(b.options.ReconnectWait):
		}
		conn, err := b.dial(ctx)
		if err != nil {
			b.logger.Warn("mesh bridge reconnect failed", zap.Error(err))
			continue
		}
		b.mu.Lock()
		if b.closed {
			b.mu.Unlock()
			conn.Close()
			return false
		}
		b.conn = conn
		b.mu.Unlock()
		reconnectsCounter.Inc()
		b.logger.Info("mesh bridge reconnected")
		return true
	}
}

func (b *Bridge) current() *websocket.Conn {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	return b.conn
}

// SendText sends text to the node to, split into packets that fit the mesh payload size.
func (b *Bridge) SendText(ctx context.Context, to, text string, wantAck bool) error {
	for _, chunk := range SplitText(text, b.options.MaxTextBytes) {
		id := b.nextID.Add(1)
		if err := b.write(ctx, encodeSendText(id, to, chunk, wantAck)); err != nil {
			return errors.Wrapf(err, "send packet %d to %v", id, to)
		}
		messagesCounter.WithLabelValues(bridgeTransport, "out").Inc()
	}
	return nil
}

func (b *Bridge) write(ctx context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("mesh bridge is closed")
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeTimeout)
	}
	if err := b.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return b.conn.WriteMessage(websocket.TextMessage, data)
}

func (b *Bridge) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	_ = b.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return b.conn.Close()
}
