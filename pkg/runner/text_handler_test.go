package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf)
	ctx := context.Background()

	s := domain.NewSession("s")
	s.Result = "E"

	require.NoError(t, handler.Output(ctx, Event{
		Type: EventPlan,
		Plan: &domain.PlanEvent{Rows: 2, Cols: 2, Route: "END", Stops: []domain.Stop{{}}, Steps: 3},
	}))
	require.NoError(t, handler.Output(ctx, Event{
		Type:    EventDeliver,
		Channel: domain.ChannelDirection,
		Step:    &domain.RouteStep{Direction: domain.Right},
		Session: s,
	}))
	require.NoError(t, handler.Output(ctx, Event{
		Type:    EventDeliver,
		Channel: domain.ChannelPosition,
		Step:    &domain.RouteStep{Position: domain.P(0, 0)},
		Session: s,
	}))
	notice := domain.NewOutOfGridNotice(domain.P(3, 3))
	require.NoError(t, handler.Output(ctx, Event{Type: EventNotice, Notice: &notice}))

	out := outBuf.String()
	assert.Contains(t, out, "Route 2x2: END (1 stops, 3 steps)")
	assert.Contains(t, out, "E RIGHT  E")
	assert.Contains(t, out, "at (0, 0)")
	assert.Contains(t, out, "! Out of grid range 3,3")
}

func TestTextHandler_Output_Renderer(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf, WithTextHandlerRenderer(func(s *domain.Session) (string, error) {
		return "Rendered: " + s.Current.String() + "\n", nil
	}))

	s := domain.NewSession("s")
	s.Current = domain.P(1, 2)
	require.NoError(t, handler.Output(context.Background(), Event{
		Type:    EventDeliver,
		Channel: domain.ChannelPosition,
		Step:    &domain.RouteStep{Position: s.Current},
		Session: s,
	}))

	assert.Equal(t, "Rendered: (1, 2)\n", outBuf.String())
}

func TestTextHandler_Input(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf, WithTextHandlerInput(pr))

	go func() {
		handler.FeedInput("5x5 (1, 3) (2, 0)", nil)
	}()

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5x5 (1, 3) (2, 0)", val)
	assert.Equal(t, "> ", outBuf.String())
}

func TestTextHandler_Input_AfterEOF(t *testing.T) {
	handler := NewTextHandler(&bytes.Buffer{}, WithTextHandlerInput(strings.NewReader("")))
	ctx := context.Background()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
	_, err = handler.Input(ctx)
	assert.ErrorIs(t, err, io.EOF, "EOF is reported on every call")

	// Feeding an exhausted handler must not panic and the line is still read.
	go handler.FeedInput("2x2 (0, 1)", nil)
	require.Eventually(t, func() bool {
		val, err := handler.Input(ctx)
		return err == nil && val == "2x2 (0, 1)"
	}, time.Second, time.Millisecond)
}

func TestTextHandler_Input_Reader(t *testing.T) {
	handler := NewTextHandler(&bytes.Buffer{}, WithTextHandlerInput(strings.NewReader("3x3 (1, 1)\n")))

	val, err := handler.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3x3 (1, 1)", val)
}

func TestTextHandler_Input_Cancelled(t *testing.T) {
	handler := NewTextHandler(&bytes.Buffer{}, WithTextHandlerInput(strings.NewReader("")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTextHandler_SystemOutput(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(outBuf)

	require.NoError(t, handler.SystemOutput(context.Background(), "hello"))
	assert.Equal(t, "[System] hello\n", outBuf.String())
}
