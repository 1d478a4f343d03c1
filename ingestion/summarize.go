package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/libris/core"
	"github.com/tmc/langchaingo/prompts"
)

const (
	// DefaultInstruction asks for a summary suited to retrieval lookups.
	DefaultInstruction = "Summarize this book's text for use with retrieval-augmented generation summary lookup"

	// SummaryTemplate places the instruction ahead of the full book text.
	SummaryTemplate = "{prompt} Book: {book}"
)

// summaryPrompt renders SummaryTemplate.
var summaryPrompt = prompts.PromptTemplate{
	Template:       SummaryTemplate,
	InputVariables: []string{"prompt", "book"},
	TemplateFormat: prompts.TemplateFormatFString,
}

// RenderPrompt fills SummaryTemplate with instruction and the document text.
func RenderPrompt(instruction string, doc *core.Document) (string, error) {
	return summaryPrompt.Format(map[string]any{
		"prompt": instruction,
		"book":   doc.Text(),
	})
}

// Summarize renders the summary prompt for doc, sends it as a single human
// message and returns the reply text.
func (p *Pipeline) Summarize(ctx context.Context, doc *core.Document) (string, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return "", err
	}

	prompt, err := RenderPrompt(p.instruction, doc)
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}

	p.logger.Debug("requesting summary", "source", doc.Source, "pages", len(doc.Pages), "prompt_length", len(prompt))
	reply, err := p.chat.Chat(ctx, []core.Message{core.HumanMessage(prompt)})
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}
