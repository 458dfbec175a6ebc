package pipeline

import (
	"context"
	"errors"
	"testing"
)

func newTestPipeline(t *testing.T, pollFn func(n int) map[string]any, chat ChatClient) *Pipeline {
	t.Helper()
	srv, _ := fakeProvider(t, "", pollFn)
	asr := newTestASRClient(t, srv.URL, 100)
	return NewPipeline(asr, NewDraftExtractor(chat, "test-model"))
}

func TestTranscribeAndExtract_RoundTrip(t *testing.T) {
	orderResult := buildOrderResult(t, [][][]string{{{"three days in Kyoto, two of us"}}})
	chat := &fakeChat{response: `{"destination":"Kyoto","days":3,"peopleCount":2}`}

	pipe := newTestPipeline(t, func(n int) map[string]any {
		return successEnvelope(orderResult)
	}, chat)

	text, draft, err := pipe.TranscribeAndExtract(context.Background(), []byte("audio"), nil)
	if err != nil {
		t.Fatalf("TranscribeAndExtract failed: %v", err)
	}

	if text != "three days in Kyoto, two of us" {
		t.Errorf("transcript = %q", text)
	}
	if draft == nil || draft.Destination == nil || *draft.Destination != "Kyoto" {
		t.Errorf("draft = %+v", draft)
	}
	if *draft.Days != 3 || *draft.PeopleCount != 2 {
		t.Errorf("expected literal values preserved, got days=%v people=%v", draft.Days, draft.PeopleCount)
	}
}

func TestTranscribeAndExtract_ExtractionFailureKeepsTranscript(t *testing.T) {
	orderResult := buildOrderResult(t, [][][]string{{{"some trip description"}}})
	chat := &fakeChat{err: errors.New("llm down")}

	pipe := newTestPipeline(t, func(n int) map[string]any {
		return successEnvelope(orderResult)
	}, chat)

	text, draft, err := pipe.TranscribeAndExtract(context.Background(), []byte("audio"), nil)

	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if text != "some trip description" {
		t.Errorf("transcript must survive extraction failure, got %q", text)
	}
	if draft != nil {
		t.Errorf("expected nil draft, got %+v", draft)
	}
}

func TestTranscribeAndExtract_TranscriptionFailureSkipsLLM(t *testing.T) {
	chat := &fakeChat{response: `{}`}
	pipe := newTestPipeline(t, func(n int) map[string]any {
		return map[string]any{"code": "26602", "descInfo": "bad audio"}
	}, chat)

	_, _, err := pipe.TranscribeAndExtract(context.Background(), []byte("audio"), nil)

	if !errors.Is(err, ErrPollingFailed) {
		t.Fatalf("expected ErrPollingFailed, got %v", err)
	}
	if chat.lastUser != "" {
		t.Error("llm must not be called when transcription fails")
	}
}
