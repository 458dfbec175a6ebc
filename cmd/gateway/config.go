package main

import (
	"time"

	"github.com/voiceplan/gateway/internal/env"
)

type config struct {
	port string

	asrBaseURL      string
	asrAppID        string
	asrAPISecret    string
	asrPoolSize     int
	asrPollInterval time.Duration
	asrMaxAttempts  int
	asrCallTimeout  time.Duration

	aiAPIKey  string
	aiBaseURL string
	aiModel   string

	databaseURL string

	maxConcurrentDictations int
	maxAudioBytes           int64
}

func loadConfig() config {
	return config{
		port: env.Str("GATEWAY_PORT", "8000"),

		asrBaseURL:      env.Str("XF_BASE_URL", "https://raasr.xfyun.cn/v2/api"),
		asrAppID:        env.Str("XF_APPID", ""),
		asrAPISecret:    env.Str("XF_API_SECRET", ""),
		asrPoolSize:     env.Int("ASR_POOL_SIZE", 10),
		asrPollInterval: time.Duration(env.Int("ASR_POLL_INTERVAL_SEC", 3)) * time.Second,
		asrMaxAttempts:  env.Int("ASR_MAX_POLL_ATTEMPTS", 100),
		asrCallTimeout:  time.Duration(env.Int("ASR_CALL_TIMEOUT_SEC", 60)) * time.Second,

		aiAPIKey:  env.Str("OPENAI_API_KEY", ""),
		aiBaseURL: env.Str("AI_API_URL", ""),
		aiModel:   env.Str("OPENAI_MODEL", "gpt-4o-mini"),

		databaseURL: env.Str("DATABASE_URL", ""),

		maxConcurrentDictations: env.Int("MAX_CONCURRENT_DICTATIONS", 20),
		maxAudioBytes:           int64(env.Int("MAX_AUDIO_BYTES", 50<<20)),
	}
}
