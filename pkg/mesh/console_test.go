package mesh

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsole(t *testing.T) {
	in := strings.NewReader("!balance\n\n  !send addr 0.1  \n")
	var out bytes.Buffer
	console := NewConsole(zap.NewNop(), in, &out, "!00000001")

	var got []Message
	err := console.Run(context.Background(), func(ctx context.Context, msg Message) {
		got = append(got, msg)
		require.Nil(t, console.SendText(ctx, msg.From, "ok "+msg.Text, true))
	})
	require.Nil(t, err)
	require.Equal(t, []Message{
		{From: "!00000001", To: "console", Text: "!balance"},
		{From: "!00000001", To: "console", Text: "!send addr 0.1"},
	}, got)
	require.Equal(t, "[!00000001] ok !balance\n[!00000001] ok !send addr 0.1\n", out.String())
	require.Nil(t, console.Close())
}

type blockingReader struct {
	done chan struct{}
}

func (r blockingReader) Read(p []byte) (int, error) {
	<-r.done
	return 0, context.Canceled
}

func TestConsole_Cancel(t *testing.T) {
	reader := blockingReader{done: make(chan struct{})}
	defer close(reader.done)
	console := NewConsole(zap.NewNop(), reader, &bytes.Buffer{}, "!00000001")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := console.Run(ctx, func(ctx context.Context, msg Message) {
		t.Fatal("unexpected message")
	})
	require.Nil(t, err)
}
