// Package assistant holds the grounded chat session attached to one outlook.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-outlook/internal/weather"
	"github.com/i474232898/weather-outlook/pkg/log"
)

var (
	ErrNotReady     = errors.New("assistant: no weather data loaded")
	ErrBusy         = errors.New("assistant: a reply is still pending")
	ErrEmptyMessage = errors.New("assistant: message is empty")
)

// State is the session lifecycle position.
type State string

const (
	StateIdle    State = "idle"
	StateReady   State = "ready"
	StatePending State = "pending"
)

// Role is the author of a transcript turn.
type Role string

const (
	RoleTurnUser      Role = "user"
	RoleTurnAssistant Role = "assistant"
	RoleTurnNotice    Role = "system-notice"
)

// Turn is one transcript entry.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Grounding is the weather data every question is answered against.
type Grounding struct {
	Place string
	Date  time.Time
	Stats weather.Stats
	Class weather.Classification
}

// GroundingFor builds the grounding of an outlook.
func GroundingFor(o weather.Outlook) Grounding {
	return Grounding{
		Place: o.Place.DisplayName,
		Date:  o.Date,
		Stats: o.Stats,
		Class: o.Classification,
	}
}

type groundingPayload struct {
	Temperature    float64                `json:"temperature"`
	Rainfall       float64                `json:"rainfall"`
	Humidity       float64                `json:"humidity"`
	Wind           float64                `json:"wind"`
	Classification weather.Classification `json:"classification"`
}

func (g Grounding) payload() string {
	data, _ := json.MarshalIndent(groundingPayload{
		Temperature:    g.Stats.Temperature,
		Rainfall:       g.Stats.Rainfall,
		Humidity:       g.Stats.Humidity,
		Wind:           g.Stats.Wind,
		Classification: g.Class,
	}, "", "  ")
	return string(data)
}

// Session is a single conversation. It is safe for concurrent use; at most
// one Send is in flight at a time.
type Session struct {
	completer Completer
	policy    Policy
	now       func() time.Time

	mu         sync.Mutex
	state      State
	grounding  Grounding
	transcript []Turn
}

// NewSession returns an Idle session.
func NewSession(completer Completer, policy Policy) *Session {
	return &Session{
		completer: completer,
		policy:    policy,
		now:       time.Now,
		state:     StateIdle,
	}
}

// Attach loads the grounding data and moves Idle to Ready. It returns false
// when the session already has data.
func (s *Session) Attach(g Grounding) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return false
	}
	s.grounding = g
	s.state = StateReady
	s.appendLocked(RoleTurnNotice, fmt.Sprintf(
		"Weather data loaded for %s on %s. Ask me anything about it!",
		g.Place, weather.FormatDate(g.Date),
	))
	return true
}

// Send appends the user's message, asks the completer and appends its reply.
// A completer failure is recorded as an error notice and returned.
func (s *Session) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	switch {
	case s.state == StateIdle:
		s.mu.Unlock()
		return ErrNotReady
	case s.state == StatePending:
		s.mu.Unlock()
		return ErrBusy
	case strings.TrimSpace(text) == "":
		s.mu.Unlock()
		return ErrEmptyMessage
	}
	s.appendLocked(RoleTurnUser, text)
	s.state = StatePending
	messages := []Message{
		{Role: RoleSystem, Content: s.policy.Text},
		{Role: RoleUser, Content: "Weather Data: " + s.grounding.payload() + "\n\nQuery: " + text},
	}
	s.mu.Unlock()

	reply, err := s.completer.Complete(ctx, messages)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("policy", s.policy.Version).Msg("assistant completion failed")
		s.appendLocked(RoleTurnNotice, "Error: "+err.Error())
		return fmt.Errorf("complete: %w", err)
	}
	s.appendLocked(RoleTurnAssistant, reply)
	return nil
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the turns so far.
func (s *Session) Transcript() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// PolicyVersion reports which policy the session sends.
func (s *Session) PolicyVersion() string {
	return s.policy.Version
}

func (s *Session) appendLocked(role Role, content string) {
	s.transcript = append(s.transcript, Turn{Role: role, Content: content, Timestamp: s.now()})
}
