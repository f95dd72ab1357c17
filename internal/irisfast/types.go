package irisfast

import "strings"

// Message is one chat event pushed by the gateway.
type Message struct {
	Msg    string       `json:"msg"`
	Room   string       `json:"room"`
	Sender *string      `json:"sender,omitempty"`
	JSON   *MessageJSON `json:"json,omitempty"`
}

// MessageJSON is the raw client payload attached to a message.
type MessageJSON struct {
	UserID   string    `json:"user_id"`
	ChatID   string    `json:"chat_id,omitempty"`
	Message  string    `json:"message,omitempty"`
	Mentions []Mention `json:"mentions,omitempty"`
}

type Mention struct {
	UserID string `json:"user_id"`
}

// UserID identifies the sender, preferring the stable id over the display name.
func (m *Message) UserID() string {
	if m == nil {
		return ""
	}
	if m.JSON != nil && strings.TrimSpace(m.JSON.UserID) != "" {
		return strings.TrimSpace(m.JSON.UserID)
	}
	return m.SenderName()
}

func (m *Message) SenderName() string {
	if m == nil || m.Sender == nil {
		return ""
	}
	return strings.TrimSpace(*m.Sender)
}

// MentionedUserIDs lists users tagged in the message, in order.
func (m *Message) MentionedUserIDs() []string {
	if m == nil || m.JSON == nil {
		return nil
	}
	var out []string
	for _, mt := range m.JSON.Mentions {
		if id := strings.TrimSpace(mt.UserID); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// ReplyRequest is the body of POST /reply and of outgoing WS frames.
type ReplyRequest struct {
	Type string `json:"type"` // text or image
	Room string `json:"room"`
	Data string `json:"data"`
}

type WebSocketState string

const (
	WSStateDisconnected WebSocketState = "disconnected"
	WSStateConnecting   WebSocketState = "connecting"
	WSStateConnected    WebSocketState = "connected"
	WSStateReconnecting WebSocketState = "reconnecting"
	WSStateFailed       WebSocketState = "failed"
)
