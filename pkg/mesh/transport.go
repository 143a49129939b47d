package mesh

import "context"

// Message is a text message received from the mesh.
type Message struct {
	// From is the sender's node id, e.g. "!a1b2c3d4".
	From    string
	To      string
	Channel int
	Text    string
}

// Handler processes one inbound message. Transports call it sequentially.
type Handler func(ctx context.Context, msg Message)

// Transport delivers inbound messages and sends replies over the mesh.
type Transport interface {
	// Run delivers inbound messages to handler until ctx is done.
	Run(ctx context.Context, handler Handler) error
	SendText(ctx context.Context, to, text string, wantAck bool) error
	Close() error
}
