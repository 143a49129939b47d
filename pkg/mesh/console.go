package mesh

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const consoleTransport = "console"

// Console is a Transport reading commands from a terminal, for running the bot without a radio.
// Every line is a message from one configured sender.
type Console struct {
	logger *zap.Logger
	in     io.Reader
	sender string

	mu  sync.Mutex
	out io.Writer
}

var _ Transport = &Console{}

func NewConsole(logger *zap.Logger, in io.Reader, out io.Writer, sender string) *Console {
	return &Console{
		logger: logger,
		in:     in,
		out:    out,
		sender: sender,
	}
}

// Run returns when ctx is done or the input is exhausted.
func (c *Console) Run(ctx context.Context, handler Handler) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			messagesCounter.WithLabelValues(consoleTransport, "in").Inc()
			handler(ctx, Message{From: c.sender, To: consoleTransport, Text: line})
		}
	}
}

func (c *Console) SendText(ctx context.Context, to, text string, wantAck bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	messagesCounter.WithLabelValues(consoleTransport, "out").Inc()
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", to, text)
	return err
}

func (c *Console) Close() error {
	return nil
}
