package conversation

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/libris/ai/mock"
	"github.com/poiesic/libris/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewRunner_RequiresChatModel(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrChatModelRequired)
}

func TestRun_ForwardsPromptAsSoleHumanMessage(t *testing.T) {
	chat := mock.NewMockChatModel()
	chat.ChatFunc = func(ctx context.Context, msgs []core.Message) (core.Message, error) {
		return core.Message{Role: core.RoleAI, Content: "1 + 1 = 2"}, nil
	}

	runner, err := NewRunner(chat)
	require.NoError(t, err)

	reply, err := runner.Run(context.Background(), DefaultPrompt)
	require.NoError(t, err)
	assert.Equal(t, "1 + 1 = 2", reply)

	require.Equal(t, 1, chat.CallCount())
	assert.Equal(t, []core.Message{{Role: core.RoleHuman, Content: "What is 1 + 1?"}}, chat.Calls()[0])
}

func TestRun_ReturnsReplyUnchanged(t *testing.T) {
	chat := mock.NewMockChatModel()
	chat.ChatFunc = func(ctx context.Context, msgs []core.Message) (core.Message, error) {
		return core.Message{Role: core.RoleAI, Content: "  spaced\nreply  "}, nil
	}

	runner, err := NewRunner(chat)
	require.NoError(t, err)

	reply, err := runner.Run(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "  spaced\nreply  ", reply)
	assert.Equal(t, "", chat.Calls()[0][0].Content)
}

func TestRun_PropagatesChatError(t *testing.T) {
	boom := errors.New("401 unauthorized")
	chat := mock.NewMockChatModel()
	chat.ChatFunc = func(ctx context.Context, msgs []core.Message) (core.Message, error) {
		return core.Message{}, boom
	}

	runner, err := NewRunner(chat)
	require.NoError(t, err)

	reply, err := runner.Run(context.Background(), "hi")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, reply)
	assert.Equal(t, 1, chat.CallCount())
}

func TestRun_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	runner, err := NewRunner(mock.NewMockChatModel())
	require.NoError(t, err)

	_, err = runner.Run(context.Background(), "hi")
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, NodeName, spans[0].Name())
}
