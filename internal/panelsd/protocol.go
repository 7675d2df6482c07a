package panelsd

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
)

// EnvelopeKind distinguishes request/response/event frames.
type EnvelopeKind uint8

const (
	EnvelopeRequest EnvelopeKind = iota + 1
	EnvelopeResponse
	EnvelopeEvent
)

// Envelope is the framed message exchanged between client and daemon.
type Envelope struct {
	Kind    EnvelopeKind
	Op      Op
	Event   EventType
	ID      uint64
	Payload []byte
	Error   string
}

func encodePayload(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePayload(data []byte, v any) error {
	if v == nil || len(data) == 0 {
		return nil
	}
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

// writeEnvelope frames one envelope onto the connection. A fresh encoder
// per frame re-sends the type descriptors, so every frame is decodable on
// its own regardless of which frames the peer has already seen. Callers
// must not write the same connection concurrently.
func writeEnvelope(w io.Writer, env Envelope) error {
	if err := gob.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("write envelope: %w", err)
	}
	return nil
}

// readEnvelope reads one envelope frame. br must be the connection's
// single long-lived buffered reader: the per-frame decoder reads through
// it, so bytes it buffers past a frame boundary survive for the next
// frame, and a deadline error poisons only this frame's decoder.
func readEnvelope(br *bufio.Reader) (Envelope, error) {
	var env Envelope
	if err := gob.NewDecoder(br).Decode(&env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}
