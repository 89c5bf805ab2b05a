// Package config loads the optional TOML settings file and environment
// overrides, and turns the mutable on-disk settings into the immutable
// per-run values the pipeline consumes.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/linuxmatters/crosstalk/internal/prompt"
	"github.com/linuxmatters/crosstalk/internal/transcribe"
	"github.com/linuxmatters/crosstalk/internal/vad"
	"github.com/linuxmatters/crosstalk/internal/vocab"
)

// Settings mirrors the settings file. Field defaults match the pipeline
// defaults, so an absent file yields a fully working configuration.
type Settings struct {
	VAD        VADSettings        `mapstructure:"vad"`
	Context    ContextSettings    `mapstructure:"context"`
	Whisper    WhisperSettings    `mapstructure:"whisper"`
	Log        LogSettings        `mapstructure:"log"`
	Vocabulary []DictionaryConfig `mapstructure:"vocabulary"`
}

// VADSettings selects the engine and its preset.
type VADSettings struct {
	Engine string `mapstructure:"engine"` // energy | adaptive | spectral
	Preset string `mapstructure:"preset"` // default | low-quality | high-quality | aggressive | telephone | wideband
}

// ContextSettings holds the context-optimization parameters snapshotted at
// run start.
type ContextSettings struct {
	MaxContextLength            int     `mapstructure:"max_context_length"`
	MaxRecentTurns              int     `mapstructure:"max_recent_turns"`
	EnableEntityExtraction      bool    `mapstructure:"enable_entity_extraction"`
	EnableVocabularyIntegration bool    `mapstructure:"enable_vocabulary_integration"`
	PostVADMergeThreshold       float64 `mapstructure:"post_vad_merge_threshold"`
	BaseContextPrompt           string  `mapstructure:"base_context_prompt"`
}

// WhisperSettings configures the sidecar client.
type WhisperSettings struct {
	URL            string `mapstructure:"url"`
	Model          string `mapstructure:"model"`
	Language       string `mapstructure:"language"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LogSettings configures structured logging.
type LogSettings struct {
	Level string `mapstructure:"level"`
}

// DictionaryConfig is one vocabulary dictionary in the settings file.
type DictionaryConfig struct {
	Name    string   `mapstructure:"name"`
	Enabled bool     `mapstructure:"enabled"`
	Terms   []string `mapstructure:"terms"`
}

// Load reads settings from the given TOML file, or returns defaults when
// path is empty. Environment variables prefixed CROSSTALK_ override file
// values.
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("crosstalk")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("vad.engine", "spectral")
	v.SetDefault("vad.preset", "telephone")
	v.SetDefault("context.max_context_length", prompt.DefaultMaxContextLength)
	v.SetDefault("context.max_recent_turns", prompt.DefaultMaxRecentTurns)
	v.SetDefault("context.enable_entity_extraction", true)
	v.SetDefault("context.enable_vocabulary_integration", true)
	v.SetDefault("context.post_vad_merge_threshold", 1.5)
	v.SetDefault("context.base_context_prompt", "")
	v.SetDefault("whisper.url", "")
	v.SetDefault("whisper.model", "")
	v.SetDefault("whisper.language", "")
	v.SetDefault("whisper.timeout_seconds", 0)
	v.SetDefault("log.level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return settings, nil
}

// Snapshot captures the context parameters as the immutable per-run
// configuration. Call once at run start; later settings edits do not reach
// a running session.
func (s *Settings) Snapshot() prompt.ContextSnapshot {
	return prompt.ContextSnapshot{
		MaxContextLength:            s.Context.MaxContextLength,
		MaxRecentTurns:              s.Context.MaxRecentTurns,
		EnableEntityExtraction:      s.Context.EnableEntityExtraction,
		EnableVocabularyIntegration: s.Context.EnableVocabularyIntegration,
		PostVADMergeThreshold:       s.Context.PostVADMergeThreshold,
		BaseContextPrompt:           s.Context.BaseContextPrompt,
	}.Normalize()
}

// Algorithm maps the engine/preset names to a VAD algorithm.
func (s *Settings) Algorithm() (vad.Algorithm, error) {
	engine := strings.ToLower(strings.TrimSpace(s.VAD.Engine))
	preset := strings.ToLower(strings.TrimSpace(s.VAD.Preset))

	switch engine {
	case "", "energy", "standard":
		switch preset {
		case "", "default":
			return vad.Energy(vad.DefaultEnergyParams()), nil
		case "low-quality":
			return vad.Energy(vad.LowQualityEnergyParams()), nil
		case "high-quality":
			return vad.Energy(vad.HighQualityEnergyParams()), nil
		}
	case "adaptive":
		switch preset {
		case "", "default":
			return vad.Adaptive(vad.DefaultAdaptiveParams()), nil
		case "low-quality":
			return vad.Adaptive(vad.LowQualityAdaptiveParams()), nil
		case "aggressive":
			return vad.Adaptive(vad.AggressiveAdaptiveParams()), nil
		}
	case "spectral":
		switch preset {
		case "", "default":
			return vad.Spectral(vad.DefaultSpectralParams()), nil
		case "telephone":
			return vad.Spectral(vad.TelephoneSpectralParams()), nil
		case "wideband":
			return vad.Spectral(vad.WidebandSpectralParams()), nil
		}
	}
	return vad.Algorithm{}, fmt.Errorf("unknown vad engine/preset %q/%q", s.VAD.Engine, s.VAD.Preset)
}

// VocabularyProvider builds the static provider from the configured
// dictionaries.
func (s *Settings) VocabularyProvider() vocab.Provider {
	if len(s.Vocabulary) == 0 {
		return vocab.None{}
	}
	dictionaries := make([]vocab.Dictionary, 0, len(s.Vocabulary))
	for _, d := range s.Vocabulary {
		dictionaries = append(dictionaries, vocab.Dictionary{
			Name:    d.Name,
			Enabled: d.Enabled,
			Terms:   d.Terms,
		})
	}
	return vocab.NewStatic(dictionaries)
}

// WhisperConfig converts the settings into the sidecar client config.
func (s *Settings) WhisperConfig() transcribe.WhisperConfig {
	return transcribe.WhisperConfig{
		URL:      s.Whisper.URL,
		Model:    s.Whisper.Model,
		Language: s.Whisper.Language,
		Timeout:  time.Duration(s.Whisper.TimeoutSeconds) * time.Second,
	}
}
