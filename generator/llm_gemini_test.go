package generator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const geminiBody = `{
  "candidates": [{"content": {"role": "model", "parts": [{"text": "{\"variations\": []}"}]}, "finishReason": "STOP"}]
}`

func geminiServer(t *testing.T, status int, reply string, seen func(r *http.Request, body string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if seen != nil {
			seen(r, string(body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewGeminiLLMMissingKey(t *testing.T) {
	_, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{Provider: "gemini"})
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = NewGeminiLLMFromConfig(context.Background(), nil)
	assert.Error(t, err)
}

func TestNewGeminiLLMDefaultsModel(t *testing.T) {
	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{APIKey: "g-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, llm.Model)
}

func TestGeminiLLMComplete(t *testing.T) {
	var path, key, body string
	srv := geminiServer(t, http.StatusOK, geminiBody, func(r *http.Request, b string) {
		path, key, body = r.URL.Path, r.Header.Get("x-goog-api-key"), b
	})

	temp := 0.5
	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{APIKey: "g-test", BaseURL: srv.URL + "/", Temperature: &temp})
	require.NoError(t, err)

	out, err := llm.Complete(context.Background(), Prompt{System: "sys", User: "user", ExpectJSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"variations": []}`, out)

	assert.True(t, strings.HasSuffix(path, DefaultGeminiModel+":generateContent"), path)
	assert.Equal(t, "g-test", key)
	assert.Equal(t, "user", gjson.Get(body, "contents.0.parts.0.text").String())
	assert.Equal(t, "sys", gjson.Get(body, "systemInstruction.parts.0.text").String())
	assert.Equal(t, "application/json", gjson.Get(body, "generationConfig.responseMimeType").String())
	assert.InDelta(t, 0.5, gjson.Get(body, "generationConfig.temperature").Float(), 1e-6)
}

func TestGeminiLLMCompleteFreeformIsPlainText(t *testing.T) {
	var body string
	srv := geminiServer(t, http.StatusOK, geminiBody, func(_ *http.Request, b string) { body = b })

	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{APIKey: "g-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	_, err = llm.Complete(context.Background(), Prompt{System: "sys", User: "user"})
	require.NoError(t, err)
	assert.False(t, gjson.Get(body, "generationConfig.responseMimeType").Exists())
	assert.False(t, gjson.Get(body, "generationConfig.temperature").Exists())
}

func TestGeminiLLMCompleteTransportError(t *testing.T) {
	srv := geminiServer(t, http.StatusBadRequest, `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`, nil)

	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{APIKey: "g-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = llm.Complete(context.Background(), Prompt{System: "sys", User: "user"})
	require.Error(t, err)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "gemini", te.Provider)
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiLLMCompleteEmptyCandidates(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `{"candidates": []}`, nil)

	llm, err := NewGeminiLLMFromConfig(context.Background(), &LLMSettings{APIKey: "g-test", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = llm.Complete(context.Background(), Prompt{System: "sys", User: "user"})
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "gemini", te.Provider)
	assert.Contains(t, err.Error(), "empty candidates")
}
