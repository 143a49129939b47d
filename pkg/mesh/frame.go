package mesh

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Frame types exchanged with the mesh gateway.
const (
	frameText     = "text"
	frameAck      = "ack"
	frameNak      = "nak"
	frameSendText = "send_text"
)

// frame is a JSON object exchanged with the mesh gateway over the websocket.
type frame struct {
	Type    string
	ID      uint64
	From    string
	To      string
	Channel int
	Text    string
	WantAck bool
	Error   string
}

func encodeSendText(id uint64, to, text string, wantAck bool) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("type")
	e.Str(frameSendText)
	e.FieldStart("id")
	e.UInt64(id)
	e.FieldStart("to")
	e.Str(to)
	e.FieldStart("text")
	e.Str(text)
	e.FieldStart("want_ack")
	e.Bool(wantAck)
	e.ObjEnd()
	return e.Bytes()
}

func decodeFrame(data []byte) (frame, error) {
	var f frame
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "type":
			f.Type, err = d.Str()
		case "id":
			f.ID, err = d.UInt64()
		case "from":
			f.From, err = d.Str()
		case "to":
			f.To, err = d.Str()
		case "channel":
			f.Channel, err = d.Int()
		case "text":
			f.Text, err = d.Str()
		case "want_ack":
			f.WantAck, err = d.Bool()
		case "error":
			f.Error, err = d.Str()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	if err != nil {
		return frame{}, errors.Wrap(err, "decode frame")
	}
	if f.Type == "" {
		return frame{}, errors.New("decode frame: missing type")
	}
	return f, nil
}
