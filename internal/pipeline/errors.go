package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel error kinds surfaced by the pipeline. Callers branch on these with
// errors.Is; kinds that carry provider context are typed below and unwrap to
// their sentinel.
var (
	// ErrConfiguration means required credentials are missing. Raised before
	// any network call is made.
	ErrConfiguration = errors.New("service not configured")

	// ErrInvalidInput means the caller-supplied input was unusable (e.g. an
	// empty audio buffer). No network call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUploadRejected means the provider answered the upload with a
	// non-success envelope. Uploads are not retried; a fresh signature is
	// needed, so retry is left to the caller.
	ErrUploadRejected = errors.New("upload rejected")

	// ErrTranscriptCorrupt means a lattice segment in a completed job could
	// not be parsed. No partial transcript is returned.
	ErrTranscriptCorrupt = errors.New("transcript corrupt")

	// ErrPollingFailed means the provider reported a terminal failure, either
	// as a non-success envelope code or a failed order status.
	ErrPollingFailed = errors.New("transcription failed")

	// ErrPollingTimedOut means the attempt ceiling was reached without the
	// provider ever answering with a terminal state.
	ErrPollingTimedOut = errors.New("transcription polling timed out")

	// ErrUnparsableModelOutput means the language model's output contained no
	// parsable JSON object.
	ErrUnparsableModelOutput = errors.New("unparsable model output")

	// ErrExtractionFailed means transcript-to-plan extraction failed. The
	// typed ExtractionError carries the original transcript so it can still
	// be shown to the user.
	ErrExtractionFailed = errors.New("travel plan extraction failed")

	// ErrInvalidPlanStructure means the generated plan is unusable even after
	// default filling (no title or no days).
	ErrInvalidPlanStructure = errors.New("invalid plan structure")
)

// EnvelopeError is a non-success provider envelope, carrying the provider's
// code and description. Kind is ErrUploadRejected or ErrPollingFailed.
type EnvelopeError struct {
	Kind error
	Code string
	Desc string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s: %s (code %s)", e.Kind, e.Desc, e.Code)
}

func (e *EnvelopeError) Unwrap() error { return e.Kind }

// TaskFailedError is a provider-side terminal failure, carrying the
// provider's failType code. Unwraps to ErrPollingFailed.
type TaskFailedError struct {
	FailType int
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("%s: provider fail type %d", ErrPollingFailed, e.FailType)
}

func (e *TaskFailedError) Unwrap() error { return ErrPollingFailed }

// ModelOutputError carries the raw model text that could not be decoded.
// Unwraps to ErrUnparsableModelOutput.
type ModelOutputError struct {
	Raw string
	Err error
}

func (e *ModelOutputError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnparsableModelOutput, e.Err)
}

func (e *ModelOutputError) Unwrap() error { return ErrUnparsableModelOutput }

// ExtractionError wraps any transport or decode failure during
// transcript-to-plan extraction and keeps the transcript that triggered it.
type ExtractionError struct {
	Transcript string
	Err        error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrExtractionFailed, e.Err)
}

func (e *ExtractionError) Unwrap() []error { return []error{ErrExtractionFailed, e.Err} }
