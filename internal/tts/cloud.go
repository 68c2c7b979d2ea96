package tts

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"

	"bilingo/internal/services"
)

// Cloud synthesizes speech with Google Cloud Text-to-Speech using an API key.
type Cloud struct {
	svc *texttospeech.Service

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// CloudConfig carries the credential and optional endpoint override.
type CloudConfig struct {
	APIKey   string
	Endpoint string
}

// NewCloud constructs the cloud provider. It performs no network calls.
func NewCloud(ctx context.Context, cfg CloudConfig) (*Cloud, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "new cloud", "api key required", nil)
	}
	opts := []option.ClientOption{option.WithAPIKey(key)}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "new cloud", "create client", err)
	}
	return &Cloud{
		svc:              svc,
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}, nil
}

// Name implements Synthesizer.
func (c *Cloud) Name() string { return "secondary" }

// Synthesize implements Synthesizer. Failures are returned unretried so the
// caller can fall back promptly.
func (c *Cloud) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrInput, "tts", "cloud synthesize", "empty text", nil)
	}
	rate := req.Rate
	if rate <= 0 {
		rate = 1
	}
	call := c.svc.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: req.Text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: req.LanguageCode,
			Name:         strings.TrimSpace(req.Voice),
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  rate,
		},
	})
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, services.Wrap(services.ErrProvider, "tts", "cloud synthesize", "", err)
	}
	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, services.Wrap(services.ErrProvider, "tts", "cloud synthesize", "decode audio", err)
	}
	if len(audio) == 0 {
		return nil, services.Wrap(services.ErrProvider, "tts", "cloud synthesize", "empty audio", nil)
	}
	return audio, nil
}

// Voices implements VoiceCatalog. Transient failures (429, 5xx) are retried
// with exponential backoff.
func (c *Cloud) Voices(ctx context.Context) ([]Voice, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryBaseDelay
	policy.MaxInterval = c.retryMaxDelay
	policy.MaxElapsedTime = 0

	var resp *texttospeech.ListVoicesResponse
	operation := func() error {
		var err error
		resp, err = c.svc.Voices.List().Context(ctx).Do()
		if err == nil {
			return nil
		}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code != http.StatusTooManyRequests && apiErr.Code < 500 {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	retries := uint64(0)
	if c.retryMaxAttempts > 1 {
		retries = uint64(c.retryMaxAttempts - 1)
	}
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx)); err != nil {
		return nil, services.Wrap(services.ErrProvider, "tts", "list voices", "", err)
	}

	voices := make([]Voice, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		if v == nil {
			continue
		}
		voices = append(voices, Voice{
			Name:          v.Name,
			LanguageCodes: append([]string(nil), v.LanguageCodes...),
			Gender:        v.SsmlGender,
		})
	}
	return voices, nil
}
