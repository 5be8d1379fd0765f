package domain

import "time"

// SenderRole identifies who authored a chat message.
type SenderRole string

const (
	RoleUser    SenderRole = "user"
	RolePersona SenderRole = "persona"
)

// Message is one entry in a chat session. Messages are append-only and
// strictly ordered by id within a session; ids are assigned by the
// chat controller and increase monotonically.
type Message struct {
	ID          int64      `json:"id"`
	Content     string     `json:"content"`
	Sender      SenderRole `json:"sender"`
	PersonaName string     `json:"persona_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ChatState is the per-exchange state of a chat session. At most one
// exchange is in flight: a send issued outside Idle fails fast.
type ChatState string

const (
	ChatIdle          ChatState = "idle"
	ChatSending       ChatState = "sending"
	ChatAwaitingReply ChatState = "awaiting_reply"
)
