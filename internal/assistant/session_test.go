package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-outlook/internal/weather"
)

type recordingCompleter struct {
	mu    sync.Mutex
	calls [][]Message
	reply string
	err   error
	gate  chan struct{}
}

func (c *recordingCompleter) Complete(_ context.Context, messages []Message) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, messages)
	gate := c.gate
	c.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return c.reply, c.err
}

func (c *recordingCompleter) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func testGrounding() Grounding {
	return Grounding{
		Place: "Cairo",
		Date:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Stats: weather.Stats{Temperature: 35, Rainfall: 2, Humidity: 40, Wind: 1},
		Class: weather.ClassVeryHot,
	}
}

func TestSession_StartsIdle(t *testing.T) {
	s := NewSession(&recordingCompleter{}, DefaultPolicy())
	assert.Equal(t, StateIdle, s.State())
	assert.Empty(t, s.Transcript())
}

func TestSession_SendBeforeAttach(t *testing.T) {
	c := &recordingCompleter{reply: "hi"}
	s := NewSession(c, DefaultPolicy())

	err := s.Send(context.Background(), "will it rain?")
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, s.Transcript())
	assert.Zero(t, c.callCount())
}

func TestSession_AttachOnce(t *testing.T) {
	s := NewSession(&recordingCompleter{}, DefaultPolicy())

	assert.True(t, s.Attach(testGrounding()))
	assert.False(t, s.Attach(Grounding{Place: "Elsewhere"}))

	turns := s.Transcript()
	require.Len(t, turns, 1)
	assert.Equal(t, RoleTurnNotice, turns[0].Role)
	assert.Equal(t, "Weather data loaded for Cairo on 2026-05-01. Ask me anything about it!", turns[0].Content)
	assert.Equal(t, StateReady, s.State())
}

func TestSession_SendSuccess(t *testing.T) {
	c := &recordingCompleter{reply: "Bring water."}
	policy := Policy{Version: "t1", Text: "be helpful"}
	s := NewSession(c, policy)
	s.Attach(testGrounding())

	require.NoError(t, s.Send(context.Background(), "Is it good for a hike?"))

	turns := s.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, Turn{Role: RoleTurnUser, Content: "Is it good for a hike?", Timestamp: turns[1].Timestamp}, turns[1])
	assert.Equal(t, RoleTurnAssistant, turns[2].Role)
	assert.Equal(t, "Bring water.", turns[2].Content)
	assert.Equal(t, StateReady, s.State())

	require.Equal(t, 1, c.callCount())
	msgs := c.calls[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, Message{Role: RoleSystem, Content: "be helpful"}, msgs[0])
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.True(t, strings.HasPrefix(msgs[1].Content, "Weather Data: {\n  \"temperature\": 35,"))
	assert.Contains(t, msgs[1].Content, `"classification": "veryhot"`)
	assert.True(t, strings.HasSuffix(msgs[1].Content, "}\n\nQuery: Is it good for a hike?"))
}

func TestSession_SendFailureRecordsNotice(t *testing.T) {
	c := &recordingCompleter{err: errors.New("chat relay returned 500: boom")}
	s := NewSession(c, DefaultPolicy())
	s.Attach(testGrounding())

	err := s.Send(context.Background(), "hello")
	require.Error(t, err)

	turns := s.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, RoleTurnUser, turns[1].Role)
	assert.Equal(t, RoleTurnNotice, turns[2].Role)
	assert.Equal(t, "Error: chat relay returned 500: boom", turns[2].Content)
	assert.Equal(t, StateReady, s.State())

	c.err = nil
	c.reply = "ok"
	require.NoError(t, s.Send(context.Background(), "again"))
	assert.Len(t, s.Transcript(), 5)
}

func TestSession_EmptyMessage(t *testing.T) {
	c := &recordingCompleter{}
	s := NewSession(c, DefaultPolicy())
	s.Attach(testGrounding())

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.ErrorIs(t, s.Send(context.Background(), text), ErrEmptyMessage)
	}
	assert.Len(t, s.Transcript(), 1)
	assert.Zero(t, c.callCount())
}

func TestSession_BusyWhilePending(t *testing.T) {
	c := &recordingCompleter{reply: "done", gate: make(chan struct{})}
	s := NewSession(c, DefaultPolicy())
	s.Attach(testGrounding())

	errc := make(chan error, 1)
	go func() { errc <- s.Send(context.Background(), "first") }()

	require.Eventually(t, func() bool { return s.State() == StatePending }, time.Second, time.Millisecond)

	assert.ErrorIs(t, s.Send(context.Background(), "second"), ErrBusy)
	assert.Len(t, s.Transcript(), 2, "rejected send must not touch the transcript")

	close(c.gate)
	require.NoError(t, <-errc)

	turns := s.Transcript()
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[1].Content)
	assert.Equal(t, "done", turns[2].Content)
	assert.Equal(t, 1, c.callCount())
}

func TestSession_TranscriptIsCopy(t *testing.T) {
	s := NewSession(&recordingCompleter{}, DefaultPolicy())
	s.Attach(testGrounding())

	turns := s.Transcript()
	turns[0].Content = "changed"
	assert.NotEqual(t, "changed", s.Transcript()[0].Content)
}

func TestCompleterFunc(t *testing.T) {
	var got []Message
	s := NewSession(CompleterFunc(func(_ context.Context, m []Message) (string, error) {
		got = m
		return "fn", nil
	}), DefaultPolicy())
	s.Attach(testGrounding())

	require.NoError(t, s.Send(context.Background(), "q"))
	require.Len(t, got, 2)
	assert.Equal(t, DefaultPolicy().Text, got[0].Content)
}
