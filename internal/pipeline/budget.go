package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/voiceplan/gateway/internal/metrics"
	"github.com/voiceplan/gateway/internal/models"
	"github.com/voiceplan/gateway/internal/prompts"
)

// BudgetEstimator produces a cost estimate for a trip before the user commits
// to a budget. It shares the chat client and tolerant decoding with the
// itinerary generator but runs an independent prompt.
type BudgetEstimator struct {
	llm   ChatClient
	model string
}

// NewBudgetEstimator creates an estimator using the given chat client and model.
func NewBudgetEstimator(llm ChatClient, model string) *BudgetEstimator {
	return &BudgetEstimator{llm: llm, model: model}
}

// Estimate asks the model for a total, a per-person figure and a category
// breakdown. The estimate is advisory: the model's numbers are returned as-is
// apart from a zero per-person figure, which is derived from the total.
func (e *BudgetEstimator) Estimate(ctx context.Context, input models.BudgetEstimateInput) (*models.BudgetEstimate, error) {
	start := time.Now()

	out, err := e.llm.Chat(ctx, prompts.BudgetSystem, prompts.ForBudget(input), ChatOptions{
		Model:       e.model,
		Temperature: 0.7,
		JSONObject:  true,
	})
	if err != nil {
		metrics.Errors.WithLabelValues("budget", "llm").Inc()
		return nil, fmt.Errorf("budget estimation: %w", err)
	}

	var estimate models.BudgetEstimate
	if err := DecodeTolerant(out, &estimate); err != nil {
		metrics.Errors.WithLabelValues("budget", "decode").Inc()
		return nil, err
	}
	if estimate.PerPersonEstimate == 0 && input.PeopleCount > 0 {
		estimate.PerPersonEstimate = estimate.TotalEstimate / float64(input.PeopleCount)
	}

	metrics.StageDuration.WithLabelValues("budget").Observe(time.Since(start).Seconds())
	return &estimate, nil
}
