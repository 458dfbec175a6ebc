package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voiceplan/gateway/internal/pipeline"
)

// fakeChat always answers with a fixed extraction result.
type fakeChat struct{ response string }

func (f *fakeChat) Chat(ctx context.Context, system, user string, opts pipeline.ChatOptions) (string, error) {
	return f.response, nil
}

func newDictationServer(t *testing.T) *httptest.Server {
	t.Helper()

	inner := `{"st":{"rt":[{"ws":[{"cw":[{"w":"a week in Lisbon"}]}]}]}}`
	item, _ := json.Marshal(map[string]string{"json_1best": inner})
	orderResult, _ := json.Marshal(map[string]json.RawMessage{
		"lattice": json.RawMessage("[" + string(item) + "]"),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": "000000", "content": map[string]any{"orderId": "order-1"},
		})
	})
	mux.HandleFunc("GET /getResult", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code": "000000",
			"content": map[string]any{
				"orderInfo":   map[string]any{"status": 4},
				"orderResult": string(orderResult),
			},
		})
	})
	provider := httptest.NewServer(mux)
	t.Cleanup(provider.Close)

	asr, err := pipeline.NewASRClient(pipeline.ASRConfig{
		BaseURL:      provider.URL,
		AppID:        "app123",
		APISecret:    "secret",
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewASRClient failed: %v", err)
	}

	chat := &fakeChat{response: `{"destination":"Lisbon","days":7}`}
	pipe := pipeline.NewPipeline(asr, pipeline.NewDraftExtractor(chat, "test-model"))

	srv := httptest.NewServer(NewHandler(HandlerConfig{Pipeline: pipe, MaxConcurrent: 2}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDictationSession(t *testing.T) {
	srv := newDictationServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if err = conn.WriteMessage(websocket.BinaryMessage, []byte("audio-part-1")); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err = conn.WriteMessage(websocket.BinaryMessage, []byte("audio-part-2")); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	if err = conn.WriteMessage(websocket.TextMessage, []byte("end")); err != nil {
		t.Fatalf("write end: %v", err)
	}

	var sawUploading, sawPolling bool
	var transcript string
	deadline := time.Now().Add(5 * time.Second)

	for {
		conn.SetReadDeadline(deadline)
		var ev event
		if err = conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		switch ev.Type {
		case "status":
			switch ev.Status {
			case pipeline.StatusUploading:
				sawUploading = true
			case pipeline.StatusPolling:
				sawPolling = true
			}
		case "transcript":
			transcript = ev.Text
		case "plan":
			if !sawUploading || !sawPolling {
				t.Error("expected uploading and polling status events before the plan")
			}
			if transcript != "a week in Lisbon" {
				t.Errorf("transcript = %q", transcript)
			}
			if ev.Plan == nil || ev.Plan.Destination == nil || *ev.Plan.Destination != "Lisbon" {
				t.Errorf("plan = %+v", ev.Plan)
			}
			return
		case "error":
			t.Fatalf("unexpected error event: %s (%s)", ev.Error, ev.ErrorKind)
		}
	}
}
