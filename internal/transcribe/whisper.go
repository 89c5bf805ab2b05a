package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultSidecarURL     = "http://localhost:8387"
	defaultSidecarModel   = "base"
	defaultSidecarTimeout = 120 * time.Second
)

// WhisperConfig holds configuration for the faster-whisper HTTP sidecar.
type WhisperConfig struct {
	URL      string
	Model    string
	Language string
	Timeout  time.Duration
}

// Whisper is a Transcriber backed by a faster-whisper HTTP sidecar. Audio is
// WAV-encoded in memory and uploaded per segment; the prompt rides along as
// the initial_prompt decoding hint.
type Whisper struct {
	cfg    WhisperConfig
	client *http.Client
	log    zerolog.Logger
}

// NewWhisper creates a sidecar client, filling unset config with defaults.
func NewWhisper(cfg WhisperConfig, log zerolog.Logger) *Whisper {
	if cfg.URL == "" {
		cfg.URL = defaultSidecarURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultSidecarModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultSidecarTimeout
	}
	return &Whisper{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.With().Str("component", "whisper").Logger(),
	}
}

// IsReady checks the sidecar health endpoint.
func (w *Whisper) IsReady(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.cfg.URL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Transcribe uploads one PCM segment and returns the recognised text.
func (w *Whisper) Transcribe(ctx context.Context, samples []float32, sampleRate int, contextPrompt string) (string, error) {
	wavData, err := encodeWAV(samples, sampleRate)
	if err != nil {
		return "", fmt.Errorf("encode segment: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", "segment.wav")
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(wavData); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}

	_ = writer.WriteField("model", w.cfg.Model)
	if w.cfg.Language != "" {
		_ = writer.WriteField("language", w.cfg.Language)
	}
	if contextPrompt != "" {
		_ = writer.WriteField("initial_prompt", contextPrompt)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL+"/transcribe", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode whisper response: %w", err)
	}

	w.log.Debug().Int("samples", len(samples)).Int("chars", len(result.Text)).Msg("segment transcribed")
	return result.Text, nil
}

type whisperResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}
