package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Umesh49/ZeroTrace/internal/audit"
	"github.com/Umesh49/ZeroTrace/internal/chatbot"
	"github.com/Umesh49/ZeroTrace/internal/dashboard"
	"github.com/Umesh49/ZeroTrace/internal/knowledge"
	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

func newTestServer(t *testing.T, withDashboard bool) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	pipe := pipeline.New(chatbot.Default(), audit.NopLogger())

	var hub *dashboard.Hub
	if withDashboard {
		hub = dashboard.NewHub(knowledge.Default())
		pipe.AddObserver(hub.OnEvent)
	}

	srv := httptest.NewServer(New(pipe, hub, zerolog.New(&logs)).Handler())
	t.Cleanup(srv.Close)
	return srv, &logs
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestChat_ShortCircuit(t *testing.T) {
	srv, logs := newTestServer(t, false)

	resp := post(t, srv.URL+"/api/chat", `{"message": "hello"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "short_circuit", body.Kind)
	assert.Equal(t, "greeting", body.Handler)
	assert.Nil(t, body.Match)
	assert.NotEmpty(t, body.Reply)
	assert.True(t, strings.HasPrefix(body.RequestID, "req-"))

	assert.Contains(t, logs.String(), body.RequestID)
	assert.Contains(t, logs.String(), `"handler":"greeting"`)
}

func TestChat_Match(t *testing.T) {
	srv, logs := newTestServer(t, false)

	resp := post(t, srv.URL+"/api/chat", `{"message": "explain keyloggers"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "match", body.Kind)
	require.NotNil(t, body.Match)
	assert.Equal(t, "threat", body.Match.Type)
	assert.Equal(t, "Keyloggers", body.Match.Title)
	assert.Equal(t, []string{"definition"}, body.Intents)
	assert.Contains(t, logs.String(), `"match_type":"threat"`)
}

func TestChat_EmptyMessageIsAnswered(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := post(t, srv.URL+"/api/chat", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "fallback", body.Kind)
	assert.NotEmpty(t, body.Reply)
}

func TestChat_BadJSON(t *testing.T) {
	srv, logs := newTestServer(t, false)

	resp := post(t, srv.URL+"/api/chat", `{"message": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, logs.String(), "bad request")
}

func TestChat_BodyTooLarge(t *testing.T) {
	srv, _ := newTestServer(t, false)

	big := `{"message": "` + strings.Repeat("a", MaxBodyBytes) + `"}`
	resp := post(t, srv.URL+"/api/chat", big)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompletions(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := post(t, srv.URL+"/v1/chat/completions", `{
		"model": "gpt-4o-mini",
		"messages": [
			{"role": "system", "content": "ignored"},
			{"role": "user", "content": "hi"},
			{"role": "assistant", "content": "hello"},
			{"role": "user", "content": "what is section 66"}
		]
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ChatCompletionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "chat.completion", body.Object)
	assert.Equal(t, "gpt-4o-mini", body.Model)
	require.Len(t, body.Choices, 1)
	assert.Contains(t, body.Choices[0].Message.Content, "Section 66")
	require.NotNil(t, body.ZeroBot)
	assert.Equal(t, "faq-section-66", body.ZeroBot.Handler)
}

func TestCompletions_Errors(t *testing.T) {
	srv, _ := newTestServer(t, false)

	resp := post(t, srv.URL+"/v1/chat/completions", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = post(t, srv.URL+"/v1/chat/completions", `{"messages": [{"role": "user", "content": "hi"}], "stream": true}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "streaming")
}

func TestDashboardMount(t *testing.T) {
	srv, _ := newTestServer(t, true)
	post(t, srv.URL+"/api/chat", `{"message": "hello"}`)

	resp, err := http.Get(srv.URL + dashboard.Prefix + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []dashboard.Event
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, pipeline.SourceAPI, events[0].Source)

	off, _ := newTestServer(t, false)
	resp, err = http.Get(off.URL + dashboard.Prefix + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
