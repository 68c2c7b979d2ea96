package tts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"

	"bilingo/internal/services"
)

const (
	defaultFreeBaseURL    = "https://translate.google.com"
	defaultFreeTimeout    = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
	defaultRetryMaxDelay  = 4 * time.Second
	maxChunkRunes         = 100
	freeUserAgent         = "Mozilla/5.0 (X11; Linux x86_64) bilingo"
)

// Free synthesizes speech through the public translate_tts endpoint. It needs
// no credential and always speaks at the default rate.
type Free struct {
	baseURL    string
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// FreeOption customizes the free provider.
type FreeOption func(*Free)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) FreeOption {
	return func(f *Free) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithBaseURL points the provider at a different host (tests, mirrors).
func WithBaseURL(base string) FreeOption {
	return func(f *Free) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			f.baseURL = base
		}
	}
}

// WithRetryMaxAttempts overrides the attempt count per chunk (defaults to 3).
func WithRetryMaxAttempts(attempts int) FreeOption {
	return func(f *Free) {
		if attempts > 0 {
			f.retryMaxAttempts = attempts
		}
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) FreeOption {
	return func(f *Free) {
		f.retryBaseDelay = baseDelay
		f.retryMaxDelay = maxDelay
	}
}

// NewFree constructs the free provider.
func NewFree(opts ...FreeOption) *Free {
	f := &Free{
		baseURL:          defaultFreeBaseURL,
		httpClient:       &http.Client{Timeout: defaultFreeTimeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name implements Synthesizer.
func (f *Free) Name() string { return "primary" }

// Synthesize implements Synthesizer. Text longer than the endpoint limit is
// split at word boundaries and the MP3 frames are concatenated.
func (f *Free) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	chunks := chunkText(req.Text, maxChunkRunes)
	if len(chunks) == 0 {
		return nil, services.Wrap(services.ErrInput, "tts", "free synthesize", "empty text", nil)
	}
	lang := strings.TrimSpace(req.LanguageCode)
	if lang == "" {
		lang = "en"
	}

	var audio bytes.Buffer
	for idx, chunk := range chunks {
		data, err := f.fetchWithRetry(ctx, chunk, lang, idx, len(chunks))
		if err != nil {
			return nil, services.Wrap(services.ErrProvider, "tts", "free synthesize",
				fmt.Sprintf("chunk %d/%d", idx+1, len(chunks)), err)
		}
		audio.Write(data)
	}
	return audio.Bytes(), nil
}

type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("tts request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func (f *Free) fetchWithRetry(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryBaseDelay
	policy.MaxInterval = f.retryMaxDelay
	policy.MaxElapsedTime = 0

	var data []byte
	operation := func() error {
		var err error
		data, err = f.fetch(ctx, chunk, lang, idx, total)
		if err == nil {
			return nil
		}
		var status *statusError
		if errors.As(err, &status) && status.StatusCode >= 400 && status.StatusCode < 500 && status.StatusCode != http.StatusTooManyRequests {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	retries := uint64(0)
	if f.retryMaxAttempts > 1 {
		retries = uint64(f.retryMaxAttempts - 1)
	}
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, retries), ctx)); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *Free) fetch(ctx context.Context, chunk, lang string, idx, total int) ([]byte, error) {
	query := url.Values{}
	query.Set("ie", "UTF-8")
	query.Set("client", "tw-ob")
	query.Set("tl", lang)
	query.Set("q", chunk)
	query.Set("idx", strconv.Itoa(idx))
	query.Set("total", strconv.Itoa(total))
	query.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))
	endpoint := f.baseURL + "/translate_tts?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", freeUserAgent)
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &statusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	if len(body) == 0 {
		return nil, errors.New("tts request: empty audio response")
	}
	return body, nil
}

// chunkText splits text into pieces of at most limit runes, breaking between
// words. Words longer than limit are split by rune.
func chunkText(text string, limit int) []string {
	words := strings.Fields(text)
	var chunks []string
	var current strings.Builder
	currentLen := 0
	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}
	for _, word := range words {
		runes := []rune(word)
		for len(runes) > limit {
			flush()
			chunks = append(chunks, string(runes[:limit]))
			runes = runes[limit:]
		}
		n := len(runes)
		if n == 0 {
			continue
		}
		if currentLen > 0 && currentLen+1+n > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += n
	}
	flush()
	return chunks
}
