package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/voiceplan/gateway/internal/models"
)

const budgetResponse = `{
	"totalEstimate": 9000,
	"perPersonEstimate": 4500,
	"breakdown": [
		{"category": "transportation", "estimatedAmount": 2250, "percentage": 25, "description": "flights and metro"},
		{"category": "accommodation", "estimatedAmount": 2700, "percentage": 30, "description": "hotel"},
		{"category": "food", "estimatedAmount": 1800, "percentage": 20, "description": "meals"},
		{"category": "attractions", "estimatedAmount": 1350, "percentage": 15, "description": "tickets"},
		{"category": "shopping", "estimatedAmount": 900, "percentage": 10, "description": "souvenirs"}
	],
	"tips": ["book flights early"],
	"savingTips": ["use a transit pass"]
}`

func TestEstimate(t *testing.T) {
	chat := &fakeChat{response: budgetResponse}
	est := NewBudgetEstimator(chat, "test-model")

	got, err := est.Estimate(context.Background(), models.BudgetEstimateInput{
		Destination: "Tokyo",
		Days:        5,
		PeopleCount: 2,
		TravelStyle: models.StyleLuxury,
		Preferences: []string{"food"},
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}

	if got.TotalEstimate != 9000 || got.PerPersonEstimate != 4500 {
		t.Errorf("totals = %.0f / %.0f", got.TotalEstimate, got.PerPersonEstimate)
	}
	if len(got.Breakdown) != 5 {
		t.Fatalf("breakdown has %d categories", len(got.Breakdown))
	}
	if got.Breakdown[0].Category != "transportation" || got.Breakdown[0].Percentage != 25 {
		t.Errorf("breakdown[0] = %+v", got.Breakdown[0])
	}
	if len(got.Tips) != 1 || len(got.SavingTips) != 1 {
		t.Errorf("tips = %v, savingTips = %v", got.Tips, got.SavingTips)
	}

	if !chat.lastOpts.JSONObject || chat.lastOpts.Temperature != 0.7 {
		t.Errorf("opts = %+v", chat.lastOpts)
	}
	for _, want := range []string{"Tokyo", "5 days", "2 people", "high-end", "food"} {
		if !strings.Contains(chat.lastUser, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEstimate_ProseWrappedResponse(t *testing.T) {
	chat := &fakeChat{response: "Here is the estimate:\n" + budgetResponse + "\nSafe travels!"}
	est := NewBudgetEstimator(chat, "test-model")

	got, err := est.Estimate(context.Background(), models.BudgetEstimateInput{
		Destination: "Tokyo", Days: 5, PeopleCount: 2,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if got.TotalEstimate != 9000 {
		t.Errorf("totalEstimate = %.0f", got.TotalEstimate)
	}
}

func TestEstimate_DefaultStyleIsModerate(t *testing.T) {
	chat := &fakeChat{response: budgetResponse}
	est := NewBudgetEstimator(chat, "test-model")

	_, err := est.Estimate(context.Background(), models.BudgetEstimateInput{
		Destination: "Tokyo", Days: 5, PeopleCount: 2,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if !strings.Contains(chat.lastUser, "mid-range") {
		t.Error("empty travel style should fall back to moderate in the prompt")
	}
}

func TestEstimate_DerivesPerPersonFigure(t *testing.T) {
	chat := &fakeChat{response: `{"totalEstimate": 6000, "breakdown": [], "tips": [], "savingTips": []}`}
	est := NewBudgetEstimator(chat, "test-model")

	got, err := est.Estimate(context.Background(), models.BudgetEstimateInput{
		Destination: "Tokyo", Days: 5, PeopleCount: 3,
	})
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if got.PerPersonEstimate != 2000 {
		t.Errorf("perPersonEstimate = %.0f, want 2000", got.PerPersonEstimate)
	}
}

func TestEstimate_UnparsableOutput(t *testing.T) {
	chat := &fakeChat{response: "I cannot estimate that."}
	est := NewBudgetEstimator(chat, "test-model")

	_, err := est.Estimate(context.Background(), models.BudgetEstimateInput{
		Destination: "Tokyo", Days: 5, PeopleCount: 2,
	})
	if !errors.Is(err, ErrUnparsableModelOutput) {
		t.Fatalf("expected ErrUnparsableModelOutput, got %v", err)
	}
}

func TestEstimate_ChatFailure(t *testing.T) {
	chat := &fakeChat{err: errors.New("llm down")}
	est := NewBudgetEstimator(chat, "test-model")

	_, err := est.Estimate(context.Background(), models.BudgetEstimateInput{
		Destination: "Tokyo", Days: 5, PeopleCount: 2,
	})
	if err == nil || !strings.Contains(err.Error(), "llm down") {
		t.Fatalf("expected wrapped chat error, got %v", err)
	}
}
