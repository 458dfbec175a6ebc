// Package ws serves live dictation sessions: the client streams a recorded
// voice note over a WebSocket and receives job status events while the
// provider transcribes it, then the transcript and extracted travel draft.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/voiceplan/gateway/internal/models"
	"github.com/voiceplan/gateway/internal/pipeline"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  16384,
	WriteBufferSize: 16384,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// sessionTimeout bounds one dictation end to end: upload, up to five minutes
// of polling, then extraction.
const sessionTimeout = 10 * time.Minute

// HandlerConfig holds the shared pipeline for all dictation sessions.
type HandlerConfig struct {
	Pipeline      *pipeline.Pipeline
	MaxConcurrent int
}

// Handler manages WebSocket dictation sessions with admission control.
type Handler struct {
	cfg HandlerConfig
	sem chan struct{}
}

// NewHandler creates a dictation handler with a concurrency limit.
func NewHandler(cfg HandlerConfig) *Handler {
	maxConc := cfg.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 20
	}
	return &Handler{
		cfg: cfg,
		sem: make(chan struct{}, maxConc),
	}
}

// event is every frame the server sends.
type event struct {
	Type      string              `json:"type"` // status | transcript | plan | error
	Status    pipeline.JobStatus  `json:"status,omitempty"`
	Attempts  int                 `json:"attempts,omitempty"`
	Text      string              `json:"text,omitempty"`
	Plan      *models.TravelDraft `json:"plan,omitempty"`
	Error     string              `json:"error,omitempty"`
	ErrorKind string              `json:"errorKind,omitempty"`
}

// ServeHTTP upgrades the connection and runs one dictation session.
// Returns 503 at max concurrent capacity.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case h.sem <- struct{}{}:
		defer func() { <-h.sem }()
	default:
		http.Error(w, "at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	h.runSession(conn)
}

func (h *Handler) runSession(conn *websocket.Conn) {
	audioData, err := readAudio(conn)
	if err != nil {
		slog.Error("read dictation audio", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	progress := func(job pipeline.TranscriptionJob) {
		writeEvent(conn, event{Type: "status", Status: job.Status, Attempts: job.Attempts})
	}

	text, draft, err := h.cfg.Pipeline.TranscribeAndExtract(ctx, audioData, progress)
	if err != nil {
		writeEvent(conn, event{Type: "error", Text: text, Error: err.Error(), ErrorKind: errorKind(err)})
		return
	}

	writeEvent(conn, event{Type: "transcript", Text: text})
	writeEvent(conn, event{Type: "plan", Plan: draft})
}

// readAudio collects binary frames until the client sends the "end" text
// frame, then returns the concatenated clip.
func readAudio(conn *websocket.Conn) ([]byte, error) {
	var audioData []byte
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		switch msgType {
		case websocket.BinaryMessage:
			audioData = append(audioData, data...)
		case websocket.TextMessage:
			if string(data) == "end" {
				return audioData, nil
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev event) {
	if err := conn.WriteJSON(ev); err != nil {
		slog.Error("write dictation event", "error", err)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, pipeline.ErrUploadRejected):
		return "upload_rejected"
	case errors.Is(err, pipeline.ErrTranscriptCorrupt):
		return "transcript_corrupt"
	case errors.Is(err, pipeline.ErrPollingTimedOut):
		return "polling_timed_out"
	case errors.Is(err, pipeline.ErrPollingFailed):
		return "polling_failed"
	case errors.Is(err, pipeline.ErrExtractionFailed):
		return "extraction_failed"
	case errors.Is(err, pipeline.ErrConfiguration):
		return "not_configured"
	default:
		return "internal"
	}
}
