package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/voiceplan/gateway/internal/models"
	"github.com/voiceplan/gateway/internal/pipeline"
	"github.com/voiceplan/gateway/internal/planstore"
)

const defaultPlanListLimit = 20

// planStore is the persistence surface the handlers need; satisfied by
// *planstore.Store.
type planStore interface {
	Create(ctx context.Context, input models.TravelInput, plan models.GeneratedPlan) (*planstore.Record, error)
	Get(ctx context.Context, id string) (*planstore.Record, error)
	List(ctx context.Context, limit, offset int) ([]*planstore.Record, int, error)
	Delete(ctx context.Context, id string) error
}

type deps struct {
	cfg       config
	pipeline  *pipeline.Pipeline
	generator *pipeline.ItineraryGenerator
	estimator *pipeline.BudgetEstimator
	store     planStore
	wsHandler http.Handler
}

// registerRoutes wires all HTTP endpoints to the shared mux.
func registerRoutes(mux *http.ServeMux, d deps) {
	mux.HandleFunc("/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/ai/speech-to-text", d.handleSpeechToText)
	mux.HandleFunc("POST /api/ai/generate-itinerary", d.handleGenerateItinerary)
	mux.HandleFunc("POST /api/ai/estimate-budget", d.handleEstimateBudget)
	mux.HandleFunc("POST /api/travel-plans", d.handleCreatePlan)
	mux.HandleFunc("GET /api/travel-plans", d.handleListPlans)
	mux.HandleFunc("GET /api/travel-plans/{id}", d.handleGetPlan)
	mux.HandleFunc("DELETE /api/travel-plans/{id}", d.handleDeletePlan)
	if d.wsHandler != nil {
		mux.Handle("/ws/dictate", d.wsHandler)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleSpeechToText takes raw audio bytes in the body and answers with the
// transcript plus the extracted partial plan. A failed extraction still
// returns the transcript with plan null, as the voice UI shows the text
// either way.
func (d deps) handleSpeechToText(w http.ResponseWriter, r *http.Request) {
	if d.pipeline == nil {
		writeError(w, http.StatusServiceUnavailable, "audio service not configured")
		return
	}

	audioData, err := io.ReadAll(io.LimitReader(r.Body, d.cfg.maxAudioBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio stream")
		return
	}
	if int64(len(audioData)) > d.cfg.maxAudioBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "audio exceeds maximum allowed size")
		return
	}

	text, draft, err := d.pipeline.TranscribeAndExtract(r.Context(), audioData, nil)

	var extractErr *pipeline.ExtractionError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"text": text, "plan": draft})
	case errors.As(err, &extractErr):
		writeJSON(w, http.StatusOK, map[string]any{
			"text": extractErr.Transcript, "plan": nil, "error": err.Error(),
		})
	case errors.Is(err, pipeline.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "no audio data received")
	default:
		slog.Error("speech-to-text failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// handleGenerateItinerary generates a full plan and, when a plan store is
// configured, persists it immediately.
func (d deps) handleGenerateItinerary(w http.ResponseWriter, r *http.Request) {
	if d.generator == nil {
		writeError(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	var input models.TravelInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if input.Destination == "" || input.Days <= 0 || input.Budget <= 0 ||
		input.PeopleCount <= 0 || input.StartDate == "" {
		writeError(w, http.StatusBadRequest,
			"missing required fields: destination, days, budget, peopleCount, startDate")
		return
	}

	slog.Info("generating itinerary", "destination", input.Destination, "days", input.Days)
	start := time.Now()

	plan, err := d.generator.Generate(r.Context(), input)
	if err != nil {
		slog.Error("itinerary generation failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrInvalidPlanStructure) ||
			errors.Is(err, pipeline.ErrUnparsableModelOutput) {
			status = http.StatusBadGateway
		}
		writeError(w, status, err.Error())
		return
	}
	slog.Info("itinerary generated", "destination", input.Destination,
		"elapsed", time.Since(start).Round(100*time.Millisecond).String())

	if d.store == nil {
		writeJSON(w, http.StatusOK, map[string]any{"aiPlan": plan})
		return
	}

	rec, err := d.store.Create(r.Context(), input, *plan)
	if err != nil {
		slog.Error("save travel plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save travel plan")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"travelPlan": rec, "aiPlan": plan})
}

// handleEstimateBudget returns an AI cost estimate for a trip, used before
// the user commits to a budget figure.
func (d deps) handleEstimateBudget(w http.ResponseWriter, r *http.Request) {
	if d.estimator == nil {
		writeError(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	var input models.BudgetEstimateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if input.Destination == "" || input.Days <= 0 || input.PeopleCount <= 0 {
		writeError(w, http.StatusBadRequest,
			"missing required fields: destination, days, peopleCount")
		return
	}

	estimate, err := d.estimator.Estimate(r.Context(), input)
	if err != nil {
		slog.Error("budget estimation failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, pipeline.ErrUnparsableModelOutput) {
			status = http.StatusBadGateway
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"estimate": estimate})
}

// handleCreatePlan stores a plan supplied by the client, e.g. one generated
// earlier while storage was disabled, or edited client-side.
func (d deps) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusNotFound, "plan storage disabled")
		return
	}

	var req struct {
		models.TravelInput
		Plan models.GeneratedPlan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request body")
		return
	}
	if req.Destination == "" || req.Days <= 0 || req.Budget <= 0 ||
		req.PeopleCount <= 0 || req.StartDate == "" {
		writeError(w, http.StatusBadRequest,
			"missing required fields: destination, days, budget, peopleCount, startDate")
		return
	}

	rec, err := d.store.Create(r.Context(), req.TravelInput, req.Plan)
	if err != nil {
		slog.Error("save travel plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save travel plan")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"travelPlan": rec})
}

func (d deps) handleListPlans(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusNotFound, "plan storage disabled")
		return
	}
	limit := queryInt(r, "limit", defaultPlanListLimit)
	offset := queryInt(r, "offset", 0)
	recs, total, err := d.store.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("list travel plans", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"travelPlans": recs, "total": total})
}

func (d deps) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusNotFound, "plan storage disabled")
		return
	}
	rec, err := d.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, planstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		slog.Error("get travel plan", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"travelPlan": rec})
}

func (d deps) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		writeError(w, http.StatusNotFound, "plan storage disabled")
		return
	}
	err := d.store.Delete(r.Context(), r.PathValue("id"))
	if errors.Is(err, planstore.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		slog.Error("delete travel plan", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
