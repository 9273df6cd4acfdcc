package advice

import (
	"context"
	"strings"
	"testing"

	"github.com/tuanvm/smartdebt/internal/models"
)

func TestBuildPrompt(t *testing.T) {
	due := "2024-06-01"
	debts := []models.Debt{
		{
			Title:           "Motorbike loan",
			Person:          "Linh",
			Amount:          5000000,
			RemainingAmount: 2000000,
			Type:            models.DebtBorrowed,
			InterestRate:    6.5,
			DueDate:         &due,
		},
		{
			Title:           "Lunch money",
			Person:          "An",
			Amount:          150000,
			RemainingAmount: 150000,
			Type:            models.DebtLent,
		},
	}

	prompt := buildPrompt(debts)

	for _, want := range []string{
		`"Motorbike loan"`,
		`"Linh"`,
		`"I owe"`,
		`"They owe me"`,
		`"6.5%"`,
		`"2024-06-01"`,
		"Snowball",
		"Avalanche",
		"net debt",
		"Markdown",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	// The lent debt has no deadline; its summary must carry an explicit null.
	if !strings.Contains(prompt, `"dueDate":null`) {
		t.Errorf("prompt missing null dueDate for no-deadline debt:\n%s", prompt)
	}
}

func TestBuildPromptEmptyCollection(t *testing.T) {
	prompt := buildPrompt(nil)
	if !strings.Contains(prompt, "[]") {
		t.Errorf("empty collection should embed an empty list:\n%s", prompt)
	}
}

func TestNilClientReturnsFallback(t *testing.T) {
	var c *Client
	got := c.Insights(context.Background(), nil)
	if got != FallbackMessage {
		t.Errorf("nil client Insights = %q, want fallback message", got)
	}
}
