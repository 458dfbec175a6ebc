package pipeline

import (
	"context"

	"github.com/voiceplan/gateway/internal/models"
)

// Pipeline chains transcription and plan extraction: one voice note in, the
// raw transcript plus a partial travel plan out. Each invocation is an
// independent unit of work; the Pipeline itself holds no per-job state.
type Pipeline struct {
	asr       *ASRClient
	extractor *DraftExtractor
}

// NewPipeline wires the provider client to the draft extractor.
func NewPipeline(asr *ASRClient, extractor *DraftExtractor) *Pipeline {
	return &Pipeline{asr: asr, extractor: extractor}
}

// TranscribeAndExtract runs audio through upload/poll transcription, then
// extracts a partial travel plan from the transcript. When extraction fails
// the transcript is still returned (also carried on the ExtractionError) so
// the caller can show the user what was heard. progress may be nil.
func (p *Pipeline) TranscribeAndExtract(ctx context.Context, audioData []byte, progress ProgressFunc) (string, *models.TravelDraft, error) {
	job, err := p.asr.Transcribe(ctx, audioData, progress)
	if err != nil {
		return "", nil, err
	}

	draft, err := p.extractor.Extract(ctx, job.Transcript)
	if err != nil {
		return job.Transcript, nil, err
	}
	return job.Transcript, draft, nil
}
