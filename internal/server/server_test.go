package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/internal/server"
	"github.com/yaklabco/mdpost/pkg/post"
	"github.com/yaklabco/mdpost/pkg/preview"
)

func newTestServer(t *testing.T, withPosts bool) *httptest.Server {
	t.Helper()

	var opts []server.Option
	if withPosts {
		dispatcher := post.NewDispatcher(context.Background(), 2)
		t.Cleanup(dispatcher.Close)
		svc := post.NewService(post.NewMemoryStore(), dispatcher,
			post.NewExcerptDescriber(post.MaxDescriptionLength))
		opts = append(opts, server.WithPosts(svc))
	}

	srv := server.New(preview.NewEngine(nil), opts...)
	ts := httptest.NewServer(srv.Handler(context.Background()))
	t.Cleanup(ts.Close)
	return ts
}

// call sends body as JSON (when non-nil) and decodes the response into out.
func call(t *testing.T, method, url string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)

	var got map[string]string
	assert.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/healthz", nil, &got))
	assert.Equal(t, "ok", got["status"])
}

func TestRender(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)

	tests := []struct {
		name      string
		content   string
		wantEmpty bool
		contains  string
	}{
		{name: "heading", content: "# Hello", contains: "Hello</h1>"},
		{name: "code", content: "```go\nx := 1\n```", contains: `data-language="go"`},
		{name: "empty", content: "", wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got struct {
				HTML  string `json:"html"`
				Empty bool   `json:"empty"`
			}
			status := call(t, http.MethodPost, ts.URL+"/api/render", map[string]string{"content": tt.content}, &got)
			require.Equal(t, http.StatusOK, status)
			assert.Equal(t, tt.wantEmpty, got.Empty)
			if tt.wantEmpty {
				assert.Empty(t, got.HTML)
			} else {
				assert.Contains(t, got.HTML, tt.contains)
			}
		})
	}
}

func TestRender_BadRequest(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/api/render", "application/json", strings.NewReader(`{"content":`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got map[string]string
	assert.Equal(t, http.StatusBadRequest,
		call(t, http.MethodPost, ts.URL+"/api/render", map[string]string{"markdown": "x"}, &got))
	assert.Contains(t, got["error"], "unknown field")

	assert.Equal(t, http.StatusMethodNotAllowed, call(t, http.MethodGet, ts.URL+"/api/render", nil, nil))
}

func TestFormat(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)

	tests := []struct {
		name        string
		req         map[string]any
		wantContent string
		wantCaret   int
		wantApplied bool
	}{
		{
			name:        "bold selection",
			req:         map[string]any{"command": "bold", "content": "hi there", "selectionStart": 0, "selectionEnd": 2},
			wantContent: "**hi** there",
			wantCaret:   6,
			wantApplied: true,
		},
		{
			name:        "heading on empty",
			req:         map[string]any{"command": "heading2", "content": ""},
			wantContent: "## ",
			wantCaret:   3,
			wantApplied: true,
		},
		{
			name:        "unknown command",
			req:         map[string]any{"command": "strike", "content": "text", "selectionStart": 1, "selectionEnd": 3},
			wantContent: "text",
			wantCaret:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got struct {
				Content string `json:"content"`
				Caret   int    `json:"caret"`
				Applied bool   `json:"applied"`
			}
			require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+"/api/format", tt.req, &got))
			assert.Equal(t, tt.wantContent, got.Content)
			assert.Equal(t, tt.wantCaret, got.Caret)
			assert.Equal(t, tt.wantApplied, got.Applied)
		})
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)

	var got []string
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/api/commands", nil, &got))
	assert.Equal(t, "bold", got[0])
	assert.Contains(t, got, "codeBlock")
}

func TestPosts(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)

	var created post.Post
	status := call(t, http.MethodPost, ts.URL+"/api/posts",
		post.Input{Title: "Hello", Description: "first", Content: "# Hello\n\nBody."}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Hello", created.Title)

	var got post.Post
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/api/posts/"+created.ID.String(), nil, &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Content, got.Content)

	var list []post.Post
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/api/posts", nil, &list))
	assert.Len(t, list, 1)

	var missing map[string]string
	assert.Equal(t, http.StatusNotFound,
		call(t, http.MethodGet, ts.URL+"/api/posts/"+uuid.NewString(), nil, &missing))
	assert.Equal(t, http.StatusBadRequest,
		call(t, http.MethodGet, ts.URL+"/api/posts/not-a-uuid", nil, nil))
}

func TestPosts_Validation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)

	var got struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	status := call(t, http.MethodPost, ts.URL+"/api/posts",
		post.Input{Title: strings.Repeat("t", post.MaxTitleLength+1)}, &got)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "Title is too long", got.Fields["title"])
	assert.Equal(t, "Content is required", got.Fields["content"])

	var list []post.Post
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/api/posts", nil, &list))
	assert.Empty(t, list)
}

func TestPosts_Disabled(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, ts.URL+"/api/posts", nil, nil))
}

func TestDescriptionJob(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, true)

	var queued struct {
		JobID uuid.UUID `json:"jobId"`
	}
	status := call(t, http.MethodPost, ts.URL+"/api/posts/description",
		map[string]string{"content": "# Title\n\nCompare auth methods.\n\nMore."}, &queued)
	require.Equal(t, http.StatusAccepted, status)
	require.NotEqual(t, uuid.Nil, queued.JobID)

	var job post.Job
	require.Eventually(t, func() bool {
		job = post.Job{}
		call(t, http.MethodGet, ts.URL+"/api/jobs/"+queued.JobID.String(), nil, &job)
		return job.Status.Done()
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, post.JobCompleted, job.Status)
	assert.Equal(t, "Compare auth methods", job.Output)

	assert.Equal(t, http.StatusNotFound,
		call(t, http.MethodGet, ts.URL+"/api/jobs/"+uuid.NewString(), nil, nil))

	var invalid map[string]any
	assert.Equal(t, http.StatusUnprocessableEntity,
		call(t, http.MethodPost, ts.URL+"/api/posts/description", map[string]string{"content": ""}, &invalid))
}

func TestPreviewSocket(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, false)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/preview"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	type update struct {
		Version uint64 `json:"version"`
		HTML    string `json:"html"`
		Empty   bool   `json:"empty"`
	}

	read := func() update {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var u update
		require.NoError(t, conn.ReadJSON(&u))
		return u
	}

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "# First"}))
	first := read()
	assert.Equal(t, uint64(1), first.Version)
	assert.Contains(t, first.HTML, "First</h1>")

	// A burst of edits settles on the last one, in increasing versions.
	const burst = 20
	for i := range burst {
		require.NoError(t, conn.WriteJSON(map[string]string{"content": strings.Repeat("x", i+1)}))
	}

	last := first
	for last.Version < 1+burst {
		next := read()
		assert.Greater(t, next.Version, last.Version)
		last = next
	}
	assert.Contains(t, last.HTML, strings.Repeat("x", burst))

	require.NoError(t, conn.WriteJSON(map[string]string{"content": ""}))
	empty := read()
	assert.True(t, empty.Empty)
	assert.Empty(t, empty.HTML)
}
