package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExtract_LiteralValues(t *testing.T) {
	// Values stated in the transcript must come back untouched: no rounding,
	// no unit conversion, no substitution.
	chat := &fakeChat{response: `{
		"destination": "Dali, Yunnan",
		"startDate": "2026-09-18",
		"days": 7,
		"budget": 12345.5,
		"peopleCount": 4,
		"preferences": ["nature", "photography"],
		"otherRequirements": "vegetarian food"
	}`}
	ex := NewDraftExtractor(chat, "test-model")

	draft, err := ex.Extract(context.Background(), "we want to go to Dali in Yunnan...")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if draft.Destination == nil || *draft.Destination != "Dali, Yunnan" {
		t.Errorf("destination = %v", draft.Destination)
	}
	if draft.StartDate == nil || *draft.StartDate != "2026-09-18" {
		t.Errorf("startDate = %v", draft.StartDate)
	}
	if draft.Days == nil || *draft.Days != 7 {
		t.Errorf("days = %v", draft.Days)
	}
	if draft.Budget == nil || *draft.Budget != 12345.5 {
		t.Errorf("budget = %v", draft.Budget)
	}
	if draft.PeopleCount == nil || *draft.PeopleCount != 4 {
		t.Errorf("peopleCount = %v", draft.PeopleCount)
	}
	if len(draft.Preferences) != 2 {
		t.Errorf("preferences = %v", draft.Preferences)
	}
	if draft.OtherRequirements == nil || *draft.OtherRequirements != "vegetarian food" {
		t.Errorf("otherRequirements = %v", draft.OtherRequirements)
	}
}

func TestExtract_OmittedFieldsStayAbsent(t *testing.T) {
	chat := &fakeChat{response: `{"destination": "Lisbon"}`}
	ex := NewDraftExtractor(chat, "test-model")

	draft, err := ex.Extract(context.Background(), "thinking about Lisbon")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if draft.Destination == nil || *draft.Destination != "Lisbon" {
		t.Errorf("destination = %v", draft.Destination)
	}
	if draft.Days != nil || draft.Budget != nil || draft.PeopleCount != nil ||
		draft.StartDate != nil || draft.OtherRequirements != nil {
		t.Errorf("unstated fields must be nil, got %+v", draft)
	}
}

func TestExtract_FailureCarriesTranscript(t *testing.T) {
	chat := &fakeChat{err: errors.New("connection refused")}
	ex := NewDraftExtractor(chat, "test-model")

	transcript := "five days in Rome with the kids"
	_, err := ex.Extract(context.Background(), transcript)

	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Transcript != transcript {
		t.Errorf("expected transcript on error, got %v", err)
	}
}

func TestExtract_UnparsableOutput(t *testing.T) {
	chat := &fakeChat{response: "sorry, I did not catch that"}
	ex := NewDraftExtractor(chat, "test-model")

	_, err := ex.Extract(context.Background(), "some transcript")

	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if !errors.Is(err, ErrUnparsableModelOutput) {
		t.Errorf("expected the decode failure preserved, got %v", err)
	}
}

func TestExtract_PromptHasTranscriptAndDate(t *testing.T) {
	chat := &fakeChat{response: `{}`}
	ex := NewDraftExtractor(chat, "test-model")
	ex.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }

	if _, err := ex.Extract(context.Background(), "off to Oslo next Wednesday"); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !strings.Contains(chat.lastUser, "off to Oslo next Wednesday") {
		t.Error("prompt missing transcript")
	}
	if !strings.Contains(chat.lastUser, "2026-08-31") {
		t.Error("prompt missing today's date for relative-date resolution")
	}
	if !strings.Contains(chat.lastUser, "omit it entirely") {
		t.Error("prompt missing the omission rule")
	}
}
