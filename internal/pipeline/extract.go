package pipeline

import (
	"context"
	"time"

	"github.com/voiceplan/gateway/internal/metrics"
	"github.com/voiceplan/gateway/internal/models"
	"github.com/voiceplan/gateway/internal/prompts"
)

// DraftExtractor turns a raw transcript into a partial travel request. The
// model is instructed to omit anything it cannot confidently infer, so the
// returned draft distinguishes "not stated" (nil) from "stated empty". No
// field coercion happens here; asking the user about missing fields is the
// caller's job.
type DraftExtractor struct {
	llm   ChatClient
	model string
	now   func() time.Time
}

// NewDraftExtractor creates an extractor using the given chat client and model.
func NewDraftExtractor(llm ChatClient, model string) *DraftExtractor {
	return &DraftExtractor{llm: llm, model: model, now: time.Now}
}

// Extract asks the model for the structured fields stated in the transcript.
// Any transport or decode failure comes back as an ExtractionError carrying
// the transcript, so the text can still be shown to the user.
func (e *DraftExtractor) Extract(ctx context.Context, transcript string) (*models.TravelDraft, error) {
	start := time.Now()

	today := e.now().UTC().Format("2006-01-02")
	out, err := e.llm.Chat(ctx, prompts.ExtractSystem, prompts.ForExtraction(transcript, today), ChatOptions{
		Model:       e.model,
		Temperature: 0.2,
		JSONObject:  true,
	})
	if err != nil {
		metrics.Errors.WithLabelValues("extract", "llm").Inc()
		return nil, &ExtractionError{Transcript: transcript, Err: err}
	}

	var draft models.TravelDraft
	if err := DecodeTolerant(out, &draft); err != nil {
		metrics.Errors.WithLabelValues("extract", "decode").Inc()
		return nil, &ExtractionError{Transcript: transcript, Err: err}
	}

	metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	return &draft, nil
}
