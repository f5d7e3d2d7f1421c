package openrouter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pagekit/internal/domain/entity"
	"pagekit/internal/infrastructure/logger"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict(t *testing.T) {
	v, err := parseVerdict("Sure:\n```json\n{\"pass\": true, \"confidence\": 0.9, \"issues\": [], \"reason\": \"banner shown\"}\n```")
	require.NoError(t, err)
	assert.True(t, v.Pass)
	assert.InDelta(t, 0.9, v.Confidence, 1e-9)
	assert.Equal(t, "banner shown", v.Reason)

	_, err = parseVerdict("I cannot tell")
	assert.ErrorIs(t, err, ErrNoVerdict)
}

func stubServer(t *testing.T, content string, seen *openai.ChatCompletionRequest) string {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, content)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestVisualJudge_Judge(t *testing.T) {
	var seen openai.ChatCompletionRequest
	url := stubServer(t, `{"pass": false, "confidence": 0.8, "issues": ["no logout link"], "reason": "missing"}`, &seen)

	cfg := DefaultConfig("key", "vision-model")
	cfg.BaseURL = url
	cfg.Logger = logger.NewNop()
	judge := NewVisualJudge(cfg)

	verdict, err := judge.Judge(context.Background(), entity.VisualCheck{
		Page:        "dashboard",
		Expectation: "a sign out link is visible",
		Screenshot:  &entity.Screenshot{Data: []byte{0xff, 0xd8}, Format: "jpeg"},
	})
	require.NoError(t, err)

	assert.False(t, verdict.Pass)
	assert.Equal(t, []string{"no logout link"}, verdict.Issues)
	assert.Equal(t, "vision-model", seen.Model)
	require.Len(t, seen.Messages, 2)
	require.Len(t, seen.Messages[1].MultiContent, 2)
	assert.Contains(t, seen.Messages[1].MultiContent[0].Text, "a sign out link is visible")
	assert.Contains(t, seen.Messages[1].MultiContent[1].ImageURL.URL, "data:image/jpeg;base64,")
}

func TestVisualJudge_RequiresScreenshot(t *testing.T) {
	judge := NewVisualJudge(DefaultConfig("key", "m"))
	_, err := judge.Judge(context.Background(), entity.VisualCheck{Page: "x"})
	assert.Error(t, err)
}
