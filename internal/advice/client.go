// Package advice builds a condensed summary of the debt collection and
// asks a generative model for financial guidance. Stateless: one blocking
// request per invocation, no retries, no streaming. Failures degrade to a
// fixed message, never an error.
package advice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/tuanvm/smartdebt/internal/metrics"
	"github.com/tuanvm/smartdebt/internal/models"
)

// FallbackMessage is returned whenever the advice service cannot be
// reached or errors out.
const FallbackMessage = "The AI assistant is unreachable right now. Please try again later."

// debtSummary is the condensed per-debt view sent to the model.
type debtSummary struct {
	Title     string  `json:"title"`
	Person    string  `json:"person"`
	Amount    float64 `json:"amount"`
	Remaining float64 `json:"remaining"`
	Type      string  `json:"type"`
	Interest  string  `json:"interest"`
	DueDate   *string `json:"dueDate"`
}

const promptTemplate = `Here is the list of my debts and loans:
%s

Analyze them and give me:
1. An overview of my financial position (net debt).
2. A prioritized payoff order for money I owe, using either the Snowball (smallest balance first) or Avalanche (highest interest first) method.
3. Warnings about debts with upcoming due dates.
4. Advice on optimizing my cash flow.

Answer concisely and professionally, in Markdown.`

// Client calls the Gemini API for debt advice. A nil *Client is valid and
// always answers with the fallback message, which is how the server runs
// when no API key is configured.
type Client struct {
	genai *genai.Client
	model string
}

// New creates an advice client for the given API key and model.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{genai: client, model: model}, nil
}

// Insights sends the current collection to the model and returns its
// answer verbatim. Any transport or service error yields FallbackMessage.
func (c *Client) Insights(ctx context.Context, debts []models.Debt) string {
	if c == nil {
		return FallbackMessage
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model,
		genai.Text(buildPrompt(debts)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.7),
			TopP:        genai.Ptr[float32](0.95),
		},
	)
	if err != nil {
		slog.Error("Advice request failed", "error", err)
		metrics.AdviceRequests.WithLabelValues("error").Inc()
		return FallbackMessage
	}

	text := resp.Text()
	if text == "" {
		metrics.AdviceRequests.WithLabelValues("error").Inc()
		return FallbackMessage
	}

	metrics.AdviceRequests.WithLabelValues("ok").Inc()
	return text
}

// buildPrompt embeds the condensed debt list in the instruction template.
func buildPrompt(debts []models.Debt) string {
	summaries := make([]debtSummary, 0, len(debts))
	for _, d := range debts {
		label := "They owe me"
		if d.Type == models.DebtBorrowed {
			label = "I owe"
		}
		summaries = append(summaries, debtSummary{
			Title:     d.Title,
			Person:    d.Person,
			Amount:    d.Amount,
			Remaining: d.RemainingAmount,
			Type:      label,
			Interest:  fmt.Sprintf("%g%%", d.InterestRate),
			DueDate:   d.DueDate,
		})
	}

	encoded, err := json.Marshal(summaries)
	if err != nil {
		encoded = []byte("[]")
	}
	return fmt.Sprintf(promptTemplate, encoded)
}
