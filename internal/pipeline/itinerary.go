package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voiceplan/gateway/internal/metrics"
	"github.com/voiceplan/gateway/internal/models"
	"github.com/voiceplan/gateway/internal/prompts"
)

// budgetSlack is how far the summed per-day cost may exceed the requested
// budget before a soft warning is raised.
const budgetSlack = 1.2

// ItineraryGenerator produces a complete multi-day plan from a fully
// specified travel request.
type ItineraryGenerator struct {
	llm   ChatClient
	model string
}

// NewItineraryGenerator creates a generator using the given chat client and model.
func NewItineraryGenerator(llm ChatClient, model string) *ItineraryGenerator {
	return &ItineraryGenerator{llm: llm, model: model}
}

// Generate asks the model for a day-by-day plan, decodes it tolerantly,
// fills defaults for absent top-level fields and validates the result. A
// plan with no title or no days is unusable and fails with
// ErrInvalidPlanStructure; a day-count mismatch or a cost overrun is a soft
// warning and the plan is still returned.
func (g *ItineraryGenerator) Generate(ctx context.Context, input models.TravelInput) (*models.GeneratedPlan, error) {
	start := time.Now()

	out, err := g.llm.Chat(ctx, prompts.ItinerarySystem, prompts.ForItinerary(input), ChatOptions{
		Model:       g.model,
		Temperature: 0.7,
		JSONObject:  true,
	})
	if err != nil {
		metrics.Errors.WithLabelValues("generate", "llm").Inc()
		return nil, fmt.Errorf("itinerary generation: %w", err)
	}

	var plan models.GeneratedPlan
	if err := DecodeTolerant(out, &plan); err != nil {
		metrics.Errors.WithLabelValues("generate", "decode").Inc()
		return nil, err
	}

	fillPlanDefaults(&plan, input)
	if err := validatePlan(&plan, input); err != nil {
		metrics.Errors.WithLabelValues("generate", "structure").Inc()
		return nil, err
	}

	metrics.PlansGenerated.Inc()
	metrics.StageDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	return &plan, nil
}

// fillPlanDefaults synthesizes absent top-level fields from the request.
func fillPlanDefaults(plan *models.GeneratedPlan, input models.TravelInput) {
	if plan.Title == "" {
		plan.Title = fmt.Sprintf("%s %d-day trip", input.Destination, input.Days)
	}
	if plan.Destination == "" {
		plan.Destination = input.Destination
	}
	if plan.TotalDays == 0 {
		plan.TotalDays = input.Days
	}
	if plan.TotalBudget == 0 {
		plan.TotalBudget = input.Budget
	}
	if plan.Tips == nil {
		plan.Tips = []string{}
	}
	if plan.Itineraries == nil {
		plan.Itineraries = []models.DayPlan{}
	}
}

// validatePlan hard-fails only on an unusable plan; everything else is a
// soft warning, logged and recorded on the plan.
func validatePlan(plan *models.GeneratedPlan, input models.TravelInput) error {
	if plan.Title == "" || len(plan.Itineraries) == 0 {
		return fmt.Errorf("%w: missing title or itineraries", ErrInvalidPlanStructure)
	}

	if len(plan.Itineraries) != input.Days {
		slog.Warn("generated day count differs from request",
			"generated", len(plan.Itineraries), "requested", input.Days)
		metrics.PlanWarnings.WithLabelValues("day_count").Inc()
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("generated %d days, expected %d", len(plan.Itineraries), input.Days))
	}

	if total := plan.TotalEstimatedCost(); total > input.Budget*budgetSlack {
		slog.Warn("estimated cost exceeds budget",
			"estimated", total, "budget", input.Budget)
		metrics.PlanWarnings.WithLabelValues("budget").Inc()
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("estimated cost %.0f exceeds budget %.0f", total, input.Budget))
	}

	return nil
}
