package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/poiesic/libris/ai/openai"

// ErrNoChoices is returned when the model answers without any completion choice.
var ErrNoChoices = errors.New("chat model returned no choices")

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
type ChatModel struct {
	client      llms.Model
	model       string
	temperature float64
	logger      *slog.Logger
}

var _ ai.ChatModel = (*ChatModel)(nil)

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(config *ai.Config, opts ...openai.Option) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientOpts := append([]openai.Option{
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	}, opts...)
	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	return &ChatModel{
		client:      client,
		model:       config.ChatModel,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-chat"),
	}, nil
}

// NewChatModel creates a new chat model client using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Chat sends the messages as a single completion request at the configured temperature.
func (c *ChatModel) Chat(ctx context.Context, messages []core.Message) (core.Message, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ChatOpenAI")
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.request.model", c.model),
		attribute.Float64("gen_ai.request.temperature", c.temperature),
		attribute.String("langsmith.span.kind", "llm"),
	)

	content, err := toMessageContent(messages)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return core.Message{}, err
	}

	c.logger.Debug("sending chat request", "messages", len(messages), "model", c.model)
	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(c.temperature))
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return core.Message{}, err
	}

	if len(response.Choices) < 1 {
		span.SetStatus(codes.Error, ErrNoChoices.Error())
		return core.Message{}, ErrNoChoices
	}

	reply := core.Message{Role: core.RoleAI, Content: response.Choices[0].Content}
	span.SetAttributes(attribute.Int("gen_ai.response.length", len(reply.Content)))
	c.logger.Debug("received chat reply", "length", len(reply.Content))
	return reply, nil
}

// toMessageContent converts domain messages to langchaingo message content.
func toMessageContent(messages []core.Message) ([]llms.MessageContent, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		var role llms.ChatMessageType
		switch msg.Role {
		case core.RoleHuman:
			role = llms.ChatMessageTypeHuman
		case core.RoleAI:
			role = llms.ChatMessageTypeAI
		case core.RoleSystem:
			role = llms.ChatMessageTypeSystem
		default:
			return nil, fmt.Errorf("%w: value %q", core.ErrInvalidRole, string(msg.Role))
		}
		content = append(content, llms.TextParts(role, msg.Content))
	}
	return content, nil
}
