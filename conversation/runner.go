package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/libris/ai"
	"github.com/poiesic/libris/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultPrompt is asked when the caller supplies none.
const DefaultPrompt = "What is 1 + 1?"

// NodeName labels the single step of the exchange in logs and traces.
const NodeName = "oracle"

// ErrChatModelRequired is returned when a Runner is built without a chat model.
var ErrChatModelRequired = errors.New("chat model required")

// Runner sends one prompt to a chat model.
type Runner struct {
	chat   ai.ChatModel
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRunner creates a Runner over chat.
func NewRunner(chat ai.ChatModel, opts ...Option) (*Runner, error) {
	if chat == nil {
		return nil, ErrChatModelRequired
	}

	r := &Runner{
		chat:   chat,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "conversation", "node", NodeName)
	return r, nil
}

// Run sends prompt as the sole human message and returns the reply text unchanged.
func (r *Runner) Run(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("github.com/poiesic/libris/conversation").Start(ctx, NodeName)
	defer span.End()
	span.SetAttributes(
		attribute.Int("libris.prompt.length", len(prompt)),
		attribute.String("langsmith.span.kind", "chain"),
	)

	r.logger.Debug("sending prompt", "length", len(prompt))
	reply, err := r.chat.Chat(ctx, []core.Message{core.HumanMessage(prompt)})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("%s: %w", NodeName, err)
	}

	r.logger.Debug("received reply", "length", len(reply.Content))
	return reply.Content, nil
}
