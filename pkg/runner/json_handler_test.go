package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/courier/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	cur := domain.P(0, 1)
	err := handler.Output(context.Background(), Event{
		Type:    EventDeliver,
		Channel: domain.ChannelPosition,
		Step:    &domain.RouteStep{Position: cur},
		Diff:    &domain.SessionDiff{SessionID: "s", Current: &cur},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, EventDeliver, decoded.Type)
	assert.Equal(t, domain.ChannelPosition, decoded.Channel)
	require.NotNil(t, decoded.Diff)
	assert.Equal(t, cur, *decoded.Diff.Current)
	assert.Nil(t, decoded.Session)
}

func TestJSONHandler_Input(t *testing.T) {
	t.Run("json string", func(t *testing.T) {
		handler := NewJSONHandler(strings.NewReader("\"2x2 (1, 1)\"\n"), &bytes.Buffer{})
		val, err := handler.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "2x2 (1, 1)", val)
	})

	t.Run("plain text without newline", func(t *testing.T) {
		handler := NewJSONHandler(strings.NewReader("just plain text"), &bytes.Buffer{})
		val, err := handler.Input(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "just plain text", val)
	})

	t.Run("eof", func(t *testing.T) {
		handler := NewJSONHandler(strings.NewReader(""), &bytes.Buffer{})
		_, err := handler.Input(context.Background())
		assert.Error(t, err)
	})
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	require.NoError(t, handler.SystemOutput(context.Background(), "System Status"))
	assert.JSONEq(t, `{"type":"system","message":"System Status"}`, buf.String())
}
