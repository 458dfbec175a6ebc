package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/voiceplan/gateway/internal/audio"
	"github.com/voiceplan/gateway/internal/metrics"
)

// Provider envelope codes and order statuses. Only one code is known to mean
// "still processing"; every other non-success code is treated as terminal
// rather than guessed transient.
const (
	codeSuccess    = "000000"
	codeInProgress = "26605"

	orderStatusCompleted = 4
	orderStatusFailed    = -1
)

const (
	defaultPollInterval = 3 * time.Second
	defaultMaxAttempts  = 100
	defaultCallTimeout  = 60 * time.Second
)

// JobStatus is a transcription job state. Completed, Failed and TimedOut are
// terminal; no transitions happen after them.
type JobStatus string

const (
	StatusUploading JobStatus = "uploading"
	StatusPolling   JobStatus = "polling"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusTimedOut  JobStatus = "timed_out"
)

// TranscriptionJob tracks one audio clip through the provider's asynchronous
// upload/poll lifecycle. Values are snapshots owned by the caller; the client
// keeps nothing after Transcribe returns.
type TranscriptionJob struct {
	OrderID     string    `json:"orderId"`
	SubmittedAt time.Time `json:"submittedAt"`
	Attempts    int       `json:"attempts"`
	Status      JobStatus `json:"status"`
	Transcript  string    `json:"transcript,omitempty"`
}

// ProgressFunc receives a job snapshot after every state change and poll
// attempt. Optional; used by the live dictation session.
type ProgressFunc func(job TranscriptionJob)

// ASRConfig configures the speech-recognition provider client.
type ASRConfig struct {
	BaseURL   string
	AppID     string
	APISecret string
	PoolSize  int
	// PollInterval and MaxAttempts default to 3s and 100 (≈5 minutes);
	// overridable mainly for tests.
	PollInterval time.Duration
	MaxAttempts  int
	CallTimeout  time.Duration
}

// ASRClient talks to the asynchronous long-form recognition provider: signed
// upload, then signed result polls until the job reaches a terminal state.
type ASRClient struct {
	baseURL      string
	appID        string
	secret       string
	client       *http.Client
	pollInterval time.Duration
	maxAttempts  int
}

// NewASRClient validates credentials and builds the provider client. Missing
// credentials fail here, before any job is accepted.
func NewASRClient(cfg ASRConfig) (*ASRClient, error) {
	if cfg.AppID == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: provider app id or api secret is empty", ErrConfiguration)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 10
	}
	return &ASRClient{
		baseURL:      cfg.BaseURL,
		appID:        cfg.AppID,
		secret:       cfg.APISecret,
		client:       NewPooledHTTPClient(cfg.PoolSize, cfg.CallTimeout),
		pollInterval: cfg.PollInterval,
		maxAttempts:  cfg.MaxAttempts,
	}, nil
}

// envelope is the outer wrapper every provider response uses.
type envelope struct {
	Code     string `json:"code"`
	DescInfo string `json:"descInfo"`
	Content  struct {
		OrderID   string `json:"orderId"`
		OrderInfo struct {
			Status   int `json:"status"`
			FailType int `json:"failType"`
		} `json:"orderInfo"`
		OrderResult string `json:"orderResult"`
	} `json:"content"`
}

// Transcribe runs one clip through the full upload/poll state machine and
// returns the finished job with its assembled transcript. Blocking: the
// caller waits for a terminal state, the attempt ceiling, or ctx
// cancellation (checked between polls, never mid-call). The upload is not
// retried on failure; it is not idempotent server-side without a fresh
// signature, so retry is the caller's decision.
func (c *ASRClient) Transcribe(ctx context.Context, audioData []byte, progress ProgressFunc) (*TranscriptionJob, error) {
	if len(audioData) == 0 {
		return nil, fmt.Errorf("%w: empty audio buffer", ErrInvalidInput)
	}

	metrics.JobsActive.Inc()
	defer metrics.JobsActive.Dec()

	job := &TranscriptionJob{
		SubmittedAt: time.Now().UTC(),
		Status:      StatusUploading,
	}
	notify(progress, job)

	orderID, err := c.upload(ctx, audioData)
	if err != nil {
		job.Status = StatusFailed
		metrics.JobsTotal.WithLabelValues(string(StatusFailed)).Inc()
		return job, err
	}

	job.OrderID = orderID
	job.Status = StatusPolling
	notify(progress, job)
	slog.Info("transcription uploaded", "order_id", orderID, "bytes", len(audioData))

	err = c.poll(ctx, job, progress)
	metrics.JobsTotal.WithLabelValues(string(job.Status)).Inc()
	if err != nil {
		return job, err
	}

	metrics.PollAttempts.Observe(float64(job.Attempts))
	slog.Info("transcription completed", "order_id", orderID, "attempts", job.Attempts, "chars", len(job.Transcript))
	return job, nil
}

func (c *ASRClient) upload(ctx context.Context, audioData []byte) (string, error) {
	start := time.Now()

	ts, signa, err := Sign(c.appID, c.secret, time.Now())
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("appId", c.appID)
	params.Set("signa", signa)
	params.Set("ts", ts)
	params.Set("fileSize", strconv.Itoa(len(audioData)))
	params.Set("fileName", fmt.Sprintf("audio-%d.wav", time.Now().UnixMilli()))
	params.Set("duration", strconv.Itoa(audio.DurationSeconds(audioData)))

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload?"+params.Encode(), bytes.NewReader(audioData))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	env, err := c.do(req)
	if err != nil {
		metrics.Errors.WithLabelValues("upload", "http").Inc()
		return "", fmt.Errorf("upload request: %w", err)
	}
	if env.Code != codeSuccess {
		metrics.Errors.WithLabelValues("upload", "rejected").Inc()
		return "", &EnvelopeError{Kind: ErrUploadRejected, Code: env.Code, Desc: env.DescInfo}
	}

	metrics.StageDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	return env.Content.OrderID, nil
}

// poll drives the Polling→terminal leg of the state machine: one outstanding
// fetch at a time, a fixed wait between fetches, attempts counted for every
// non-terminal answer up to the ceiling.
func (c *ASRClient) poll(ctx context.Context, job *TranscriptionJob, progress ProgressFunc) error {
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			job.Status = StatusFailed
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}

		env, err := c.fetchResult(ctx, job.OrderID)
		if err != nil {
			metrics.Errors.WithLabelValues("poll", "http").Inc()
			job.Status = StatusFailed
			return fmt.Errorf("poll request: %w", err)
		}

		switch {
		case env.Code == codeInProgress:
			// Provider backlog; the order does not exist yet downstream.
		case env.Code != codeSuccess:
			metrics.Errors.WithLabelValues("poll", "rejected").Inc()
			job.Status = StatusFailed
			return &EnvelopeError{Kind: ErrPollingFailed, Code: env.Code, Desc: env.DescInfo}
		case env.Content.OrderInfo.Status == orderStatusCompleted:
			text, aerr := AssembleTranscript(env.Content.OrderResult)
			if aerr != nil {
				metrics.Errors.WithLabelValues("poll", "corrupt").Inc()
				job.Status = StatusFailed
				return aerr
			}
			job.Status = StatusCompleted
			job.Transcript = text
			notify(progress, job)
			metrics.StageDuration.WithLabelValues("poll").Observe(time.Since(start).Seconds())
			return nil
		case env.Content.OrderInfo.Status == orderStatusFailed:
			metrics.Errors.WithLabelValues("poll", "task_failed").Inc()
			job.Status = StatusFailed
			return &TaskFailedError{FailType: env.Content.OrderInfo.FailType}
		default:
			// Other order statuses mean still transcribing.
		}

		job.Attempts++
		notify(progress, job)
		if job.Attempts >= c.maxAttempts {
			metrics.Errors.WithLabelValues("poll", "timeout").Inc()
			job.Status = StatusTimedOut
			return fmt.Errorf("%w after %d attempts", ErrPollingTimedOut, job.Attempts)
		}
	}
}

func (c *ASRClient) fetchResult(ctx context.Context, orderID string) (*envelope, error) {
	ts, signa, err := Sign(c.appID, c.secret, time.Now())
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("appId", c.appID)
	params.Set("signa", signa)
	params.Set("ts", ts)
	params.Set("orderId", orderID)
	params.Set("resultType", "transfer")

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/getResult?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create poll request: %w", err)
	}
	return c.do(req)
}

func (c *ASRClient) do(req *http.Request) (*envelope, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider status %d: %s", resp.StatusCode, body)
	}

	var env envelope
	if err = json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return &env, nil
}

func notify(progress ProgressFunc, job *TranscriptionJob) {
	if progress != nil {
		progress(*job)
	}
}
