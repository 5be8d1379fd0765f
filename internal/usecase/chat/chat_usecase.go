// Package chat implements the persona chat session: one session per user,
// one exchange in flight at a time, with inference failures masked behind a
// canned apology so the conversation never dies mid-screen.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/event"
)

const apologyText = "抱歉，我现在有点忙，稍后再聊好吗？😊"

// Inference generates a persona-voiced reply to a user message.
type Inference interface {
	Converse(ctx context.Context, message string, persona domain.Persona, callerID uint) (string, error)
}

// SendResult carries both halves of a completed exchange. Reply is nil when
// the exchange did not produce a persona message.
type SendResult struct {
	UserMessage domain.Message  `json:"user_message"`
	Reply       *domain.Message `json:"reply,omitempty"`
	Degraded    bool            `json:"degraded"`
}

type session struct {
	id        string
	ownerID   uint
	personaID uint
	state     domain.ChatState
	stale     bool
	nextMsgID int64
	messages  []domain.Message
}

// UseCase owns the chat sessions. All session state is guarded by mu;
// inference calls run outside the lock.
type UseCase struct {
	registry  *Registry
	inference Inference
	bus       *event.Bus
	timeout   time.Duration

	delay func() time.Duration
	now   func() time.Time

	mu       sync.Mutex
	sessions map[uint]*session
}

// Option adjusts UseCase behavior, mainly for tests.
type Option func(*UseCase)

// WithReplyDelay replaces the randomized typing delay applied before a
// persona reply is appended.
func WithReplyDelay(fn func() time.Duration) Option {
	return func(uc *UseCase) { uc.delay = fn }
}

// WithClock replaces the timestamp source for appended messages.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

func NewUseCase(registry *Registry, inference Inference, bus *event.Bus, timeout time.Duration, opts ...Option) *UseCase {
	uc := &UseCase{
		registry:  registry,
		inference: inference,
		bus:       bus,
		timeout:   timeout,
		delay: func() time.Duration {
			return time.Second + time.Duration(rand.Int63n(int64(time.Second)))
		},
		now:      time.Now,
		sessions: make(map[uint]*session),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Send runs one full exchange: append the user message, ask the inference
// backend for a reply in the active persona's voice, then append the reply
// after a short typing delay. Transport and service failures surface as an
// apology message instead of an error; an expired credential marks the
// session stale and fails this and every later send.
func (uc *UseCase) Send(ctx context.Context, userID uint, content string) (*SendResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content must not be empty", domain.ErrValidation)
	}

	uc.mu.Lock()
	sess := uc.sessionLocked(userID)
	if sess.stale {
		uc.mu.Unlock()
		return nil, domain.ErrAuthExpired
	}
	if sess.state != domain.ChatIdle {
		uc.mu.Unlock()
		return nil, fmt.Errorf("%w: an exchange is already in flight", domain.ErrValidation)
	}
	sess.state = domain.ChatSending
	userMsg := uc.appendLocked(sess, content, domain.RoleUser, "")
	persona, ok := uc.registry.Get(sess.personaID)
	if !ok {
		persona = uc.registry.Default()
		sess.personaID = persona.ID
	}
	sessionID := sess.id
	sess.state = domain.ChatAwaitingReply
	uc.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	reply, err := uc.inference.Converse(callCtx, content, persona, userID)
	cancel()

	degraded := false
	if err != nil {
		if errors.Is(err, domain.ErrAuthExpired) {
			slog.Warn("chat credential expired", "user_id", userID)
			uc.mu.Lock()
			if cur, exists := uc.sessions[userID]; exists && cur.id == sessionID {
				cur.stale = true
				cur.state = domain.ChatIdle
			}
			uc.mu.Unlock()
			return &SendResult{UserMessage: userMsg}, domain.ErrAuthExpired
		}
		slog.Warn("inference failed, sending apology", "user_id", userID, "persona", persona.Nickname, "error", err)
		reply = apologyText
		degraded = true
	}

	uc.sleep(ctx)

	uc.mu.Lock()
	cur, exists := uc.sessions[userID]
	if !exists || cur.id != sessionID {
		uc.mu.Unlock()
		return nil, fmt.Errorf("%w: chat session closed", domain.ErrValidation)
	}
	if ctx.Err() != nil {
		// Caller went away mid-exchange. Drop the reply, free the session.
		cur.state = domain.ChatIdle
		uc.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", domain.ErrTransport, ctx.Err())
	}
	personaMsg := uc.appendLocked(cur, reply, domain.RolePersona, persona.Nickname)
	cur.state = domain.ChatIdle
	uc.mu.Unlock()

	return &SendResult{UserMessage: userMsg, Reply: &personaMsg, Degraded: degraded}, nil
}

// SetPersona switches the user's active persona and appends its scripted
// introduction to the history.
func (uc *UseCase) SetPersona(userID uint, personaID uint) (domain.Message, error) {
	persona, ok := uc.registry.Get(personaID)
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: persona %d", domain.ErrUnknownPersona, personaID)
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	sess := uc.sessionLocked(userID)
	sess.personaID = personaID
	return uc.appendLocked(sess, persona.Introduction(), domain.RolePersona, persona.Nickname), nil
}

// Messages returns a copy of the session history in append order.
func (uc *UseCase) Messages(userID uint) []domain.Message {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	sess := uc.sessionLocked(userID)
	history := make([]domain.Message, len(sess.messages))
	copy(history, sess.messages)
	return history
}

// Personas lists the selectable personas.
func (uc *UseCase) Personas() []domain.Persona {
	return uc.registry.List()
}

// ActivePersona reports the persona the user's session is bound to.
func (uc *UseCase) ActivePersona(userID uint) domain.Persona {
	uc.mu.Lock()
	sess := uc.sessionLocked(userID)
	personaID := sess.personaID
	uc.mu.Unlock()

	if persona, ok := uc.registry.Get(personaID); ok {
		return persona
	}
	return uc.registry.Default()
}

// CredentialRefreshed clears the stale-credential latch after the user
// re-authenticates. The session and its history survive; only the latch is
// released so sends work again.
func (uc *UseCase) CredentialRefreshed(userID uint) {
	uc.mu.Lock()
	if sess, ok := uc.sessions[userID]; ok && sess.stale {
		sess.stale = false
	}
	uc.mu.Unlock()
}

// EndSession discards the user's chat session. A reply still in flight for
// the old session is dropped when it lands.
func (uc *UseCase) EndSession(userID uint) {
	uc.mu.Lock()
	delete(uc.sessions, userID)
	uc.mu.Unlock()
}

func (uc *UseCase) sleep(ctx context.Context) {
	d := uc.delay()
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// sessionLocked returns the user's session, creating one bound to the
// default persona if needed. Caller must hold uc.mu.
func (uc *UseCase) sessionLocked(userID uint) *session {
	sess, ok := uc.sessions[userID]
	if !ok {
		sess = &session{
			id:        uuid.NewString(),
			ownerID:   userID,
			personaID: uc.registry.Default().ID,
			state:     domain.ChatIdle,
		}
		uc.sessions[userID] = sess
	}
	return sess
}

// appendLocked assigns the next message ID and records the message. Caller
// must hold uc.mu.
func (uc *UseCase) appendLocked(sess *session, content string, sender domain.SenderRole, personaName string) domain.Message {
	sess.nextMsgID++
	msg := domain.Message{
		ID:          sess.nextMsgID,
		Content:     content,
		Sender:      sender,
		PersonaName: personaName,
		CreatedAt:   uc.now(),
	}
	sess.messages = append(sess.messages, msg)
	uc.bus.Publish(event.Event{
		Type:    event.ChatMessageAppended,
		UserID:  sess.ownerID,
		At:      msg.CreatedAt,
		Payload: map[string]any{"message_id": msg.ID, "sender": string(sender)},
	})
	return msg
}
