// Package hub fans messages out to WebSocket clients. One goroutine owns the
// client set; producers never touch a connection directly.
package hub

// MessageType selects the WebSocket frame type.
type MessageType int

const (
	// TextMessage carries JSON.
	TextMessage MessageType = iota
	// BinaryMessage carries raw bytes such as encoded audio.
	BinaryMessage
)

// Message is one frame queued for every client.
type Message struct {
	Type MessageType
	Data []byte
}

// NewTextMessage wraps pre-encoded JSON.
func NewTextMessage(data []byte) Message {
	return Message{Type: TextMessage, Data: data}
}

// NewBinaryMessage wraps raw bytes.
func NewBinaryMessage(data []byte) Message {
	return Message{Type: BinaryMessage, Data: data}
}
