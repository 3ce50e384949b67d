package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/courier"
	"github.com/aretw0/courier/pkg/adapters/memory"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/observability"
	"github.com/aretw0/courier/pkg/session"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...courier.Option) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	opts = append([]courier.Option{courier.WithDelay(0)}, opts...)
	s := NewServer(courier.New(opts...), WithSessions(session.NewManager(store)))
	t.Cleanup(s.Shutdown)
	return s, store
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_HealthAndInfo(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"courier-http"`)

	w = do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "metrics are opt-in")
}

func TestServer_Plan(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	w := do(t, h, "POST", "/plan", `{"input":"5x5 (1, 3) (2, 0) (3, 2)"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var route domain.Route
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
	assert.Equal(t, "NNDEENDESSD", route.String())
	assert.Len(t, route.Stops, 3)

	t.Run("default input", func(t *testing.T) {
		w := do(t, h, "POST", "/plan", `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		var route domain.Route
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &route))
		assert.Equal(t, "NNDEENDESSD", route.String())
	})

	t.Run("invalid input", func(t *testing.T) {
		w := do(t, h, "POST", "/plan", `{"input":"five by five"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		w := do(t, h, "POST", "/plan", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_SessionLifecycle(t *testing.T) {
	s, store := newTestServer(t)
	h := s.Handler()

	w := do(t, h, "POST", "/sessions", `{"session_id":"s-1","input":"2x2 (1, 1)"}`)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var created SessionCreated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, SessionCreated{SessionID: "s-1", Route: "END", Steps: 3}, created)

	require.Eventually(t, func() bool {
		sess, err := store.Load(context.Background(), "s-1")
		return err == nil && sess.Status == domain.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	w = do(t, h, "GET", "/sessions/s-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var sess domain.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, "END", sess.Result)
	assert.Equal(t, domain.P(1, 1), sess.Current)
	assert.Equal(t, "2x2 (1, 1)", sess.Input)

	w = do(t, h, "GET", "/sessions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["s-1"]`, w.Body.String())

	w = do(t, h, "DELETE", "/sessions/s-1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, "GET", "/sessions/s-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "DELETE", "/sessions/s-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_CreateSession_GeneratesID(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s.Handler(), "POST", "/sessions", `{"input":"2x2 (3, 3)"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var created SessionCreated
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, 1, created.Skipped)
	assert.Empty(t, created.Route)
}

func TestServer_CreateSession_InvalidInput(t *testing.T) {
	s, store := newTestServer(t)

	w := do(t, s.Handler(), "POST", "/sessions", `{"session_id":"bad","input":"0x3"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, err := store.Load(context.Background(), "bad")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestServer_CreateSession_Restart(t *testing.T) {
	s, store := newTestServer(t, courier.WithDelay(time.Hour))
	h := s.Handler()

	w := do(t, h, "POST", "/sessions", `{"session_id":"r","input":"5x5 (4, 4)"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = do(t, h, "POST", "/sessions", `{"session_id":"r","input":"2x2 (1, 1)"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	sess, err := store.Load(context.Background(), "r")
	require.NoError(t, err)
	assert.Equal(t, "END", sess.Route, "the second run owns the session")
	assert.Equal(t, domain.StatusRunning, sess.Status)

	w = do(t, h, "DELETE", "/sessions/r", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestServer_MetricsAndStats(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	agg := observability.NewAggregator()

	eng := courier.New(courier.WithDelay(0), courier.WithLifecycleHooks(domain.MergeHooks(metrics.Hooks(), agg.Hooks())))
	s := NewServer(eng, WithMetrics(reg), WithAggregator(agg))
	h := s.Handler()

	w := do(t, h, "POST", "/plan", `{"input":"2x2 (1, 1)"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "courier_plans_total 1")

	w = do(t, h, "GET", "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"plans":1`)
}

func TestServer_SubscribeEvents(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/sessions/live/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "event: ping", scanner.Text())

	post, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(`{"session_id":"live","input":"2x2 (1, 1)"}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusAccepted, post.StatusCode)

	var diffs []domain.SessionDiff
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: {") {
			continue
		}
		var diff domain.SessionDiff
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &diff))
		diffs = append(diffs, diff)
		if diff.Status != nil && *diff.Status == domain.StatusCompleted {
			break
		}
	}

	require.NotEmpty(t, diffs)
	assert.Equal(t, "live", diffs[0].SessionID)
	var result string
	for _, d := range diffs {
		result += d.Appended
	}
	assert.Equal(t, "END", result)
}

func TestServer_StreamWebSocket(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/sessions/ws-live/ws?watch=result,status"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer func() {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
		resp.Body.Close()
	}()
	require.Equal(t, 1, s.streams.Subscribers("ws-live"))

	post, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(`{"session_id":"ws-live","input":"2x2 (0, 1)"}`))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusAccepted, post.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var result string
	for {
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var diff domain.SessionDiff
		require.NoError(t, json.Unmarshal(payload, &diff))
		assert.Equal(t, "ws-live", diff.SessionID)
		result += diff.Appended
		if diff.Status != nil && *diff.Status == domain.StatusCompleted {
			break
		}
	}
	assert.Equal(t, "ED", result)
}

func TestMatchesWatch(t *testing.T) {
	cur := domain.P(1, 1)
	b, _ := json.Marshal(domain.SessionDiff{SessionID: "x", Current: &cur})
	msg := string(b)

	assert.True(t, matchesWatch(msg, []string{"current"}))
	assert.True(t, matchesWatch(msg, []string{"status", " current"}))
	assert.False(t, matchesWatch(msg, []string{"result"}))
	assert.False(t, matchesWatch(msg, []string{"status"}))
}
