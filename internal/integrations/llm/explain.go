package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"spamcheck/internal/checker"
	"spamcheck/internal/config"
)

const maxExplainTokens = 300

const explainSystemPrompt = `You advise people who received a phone call from an unfamiliar number.
You are given the result of a local spam check. The verdict is final; do not contradict it.
Reply with at most two short sentences of practical advice. No greetings, no markdown.`

// Explainer writes a short caller advisory for a check. It never changes
// the verdict.
type Explainer struct {
	client anthropic.Client
	model  string
	logger *zap.Logger
}

func NewExplainer(cfg config.Config, httpClient *http.Client, logger *zap.Logger) *Explainer {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
		option.WithHTTPClient(httpClient),
	)
	return &Explainer{client: client, model: cfg.LLMModel, logger: logger}
}

func (e *Explainer) Explain(ctx context.Context, d checker.Details) (string, error) {
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: maxExplainTokens,
		System: []anthropic.TextBlockParam{
			{Text: explainSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildExplainPrompt(d))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			e.logger.Debug("llm explain response",
				zap.Int("size", len(block.Text)),
				zap.Int64("tokens_in", message.Usage.InputTokens),
				zap.Int64("tokens_out", message.Usage.OutputTokens),
			)
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

func buildExplainPrompt(d checker.Details) string {
	var sb strings.Builder
	verdict := "not spam"
	if d.IsSpam {
		verdict = "likely spam"
	}
	sb.WriteString(fmt.Sprintf("Number: %s\n", d.Display))
	sb.WriteString(fmt.Sprintf("Verdict: %s\n", verdict))
	if d.Rule != "" {
		sb.WriteString(fmt.Sprintf("Matched rule: %s\n", d.Rule))
	}
	sb.WriteString(fmt.Sprintf("Location: %s\n", d.Location))
	if d.Known != nil {
		sb.WriteString(fmt.Sprintf("Directory: known %s number, %d reports\n", d.Known.Category, d.Known.KnownReports))
	}
	if d.Community != nil {
		sb.WriteString(fmt.Sprintf("Community reports: %d spam, %d legitimate\n", d.Community.SpamReports, d.Community.LegitReports))
	}
	return sb.String()
}
