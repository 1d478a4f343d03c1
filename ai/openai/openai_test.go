package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type recordedRequest struct {
	Path        string
	Model       string
	Auth        string
	Temperature *float64
	Messages    []wireMessage
}

func newTestServer(t *testing.T, requests *[]recordedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model       string        `json:"model"`
			Temperature *float64      `json:"temperature"`
			Messages    []wireMessage `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		*requests = append(*requests, recordedRequest{
			Path:        r.URL.Path,
			Model:       body.Model,
			Auth:        r.Header.Get("Authorization"),
			Temperature: body.Temperature,
			Messages:    body.Messages,
		})

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/chat/completions":
			_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",` +
				`"choices":[{"index":0,"message":{"role":"assistant","content":"1 + 1 = 2"},"finish_reason":"stop"}],` +
				`"usage":{"prompt_tokens":5,"completion_tokens":5,"total_tokens":10}}`))
		case "/v1/embeddings":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","embedding":[0.1,0.2,0.3],"index":0}],` +
				`"model":"text-embedding-ada-002","usage":{"prompt_tokens":1,"total_tokens":1}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *ai.Config {
	return ai.NewConfig(
		ai.WithBaseURL(baseURL),
		ai.WithAPIKey("sk-test"),
	)
}

func TestChatModel_Chat(t *testing.T) {
	var requests []recordedRequest
	srv := newTestServer(t, &requests)

	model, err := NewChatModel(testConfig(srv.URL))
	require.NoError(t, err)

	reply, err := model.Chat(context.Background(), []core.Message{core.HumanMessage("What is 1 + 1?")})
	require.NoError(t, err)
	assert.Equal(t, core.RoleAI, reply.Role)
	assert.Equal(t, "1 + 1 = 2", reply.Content)

	require.Len(t, requests, 1)
	assert.Equal(t, "/v1/chat/completions", requests[0].Path)
	assert.Equal(t, ai.DefaultChatModel, requests[0].Model)
	assert.Equal(t, "Bearer sk-test", requests[0].Auth)
}

func TestChatModel_SendsZeroTemperatureAndSinglePrompt(t *testing.T) {
	var requests []recordedRequest
	srv := newTestServer(t, &requests)

	model, err := NewChatModel(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = model.Chat(context.Background(), []core.Message{core.HumanMessage("What is 1 + 1?")})
	require.NoError(t, err)

	require.Len(t, requests, 1)
	require.NotNil(t, requests[0].Temperature, "temperature must be sent explicitly")
	assert.Zero(t, *requests[0].Temperature)
	assert.Equal(t, []wireMessage{{Role: "user", Content: "What is 1 + 1?"}}, requests[0].Messages)
}

func TestChatModel_InvalidRole(t *testing.T) {
	var requests []recordedRequest
	srv := newTestServer(t, &requests)

	model, err := NewChatModel(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = model.Chat(context.Background(), []core.Message{{Role: "tool", Content: "x"}})
	assert.ErrorIs(t, err, core.ErrInvalidRole)
	assert.Empty(t, requests)
}

func TestChatModel_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	model, err := NewChatModel(testConfig(srv.URL))
	require.NoError(t, err)

	_, err = model.Chat(context.Background(), []core.Message{core.HumanMessage("hi")})
	assert.Error(t, err)
}

func TestEmbedder_EmbedText(t *testing.T) {
	var requests []recordedRequest
	srv := newTestServer(t, &requests)

	embedder, err := NewEmbedder(testConfig(srv.URL))
	require.NoError(t, err)

	vector, err := embedder.EmbedText(context.Background(), "some\ntext")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)

	require.Len(t, requests, 1)
	assert.Equal(t, "/v1/embeddings", requests[0].Path)
	assert.Equal(t, ai.DefaultEmbeddingModel, requests[0].Model)
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewProvider(ai.NewConfig())
	assert.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	var requests []recordedRequest
	srv := newTestServer(t, &requests)

	provider, err := NewProvider(testConfig(srv.URL), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer provider.Close()

	assert.NotNil(t, provider.ChatModel())
	assert.NotNil(t, provider.Embedder())
}
