package narration

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"bilingo/internal/config"
	"bilingo/internal/fileutil"
	"bilingo/internal/language"
	"bilingo/internal/logging"
	"bilingo/internal/services"
	"bilingo/internal/tts"
)

const defaultCloudTimeout = 30 * time.Second

// Retimer changes the tempo of an audio file without re-synthesizing it.
type Retimer interface {
	Retempo(ctx context.Context, input, output string, factor float64) error
}

// Asset is a resolved speech file.
type Asset struct {
	Path     string
	Key      CacheKey
	Provider string
	Cached   bool
}

// Options configures a Resolver.
type Options struct {
	Registry  *language.Registry
	Primary   tts.Synthesizer
	Secondary tts.Synthesizer
	Retimer   Retimer
	Provider  config.Provider
	Speed     float64
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Resolver turns text into cached speech assets. It is safe for concurrent use.
type Resolver struct {
	registry  *language.Registry
	primary   tts.Synthesizer
	secondary tts.Synthesizer
	retimer   Retimer
	provider  config.Provider
	speed     float64
	timeout   time.Duration
	logger    *slog.Logger

	group singleflight.Group
}

// NewResolver validates opts and builds a Resolver. Secondary may be nil, in
// which case only the primary provider is used.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Primary == nil {
		return nil, services.Wrap(services.ErrConfiguration, "narration", "new resolver", "primary synthesizer required", nil)
	}
	registry := opts.Registry
	if registry == nil {
		registry = language.NewRegistry(language.TrigramDetector{})
	}
	provider := opts.Provider
	if provider == "" {
		provider = config.ProviderPrimary
	}
	speed := opts.Speed
	if speed <= 0 {
		speed = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultCloudTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		registry:  registry,
		primary:   opts.Primary,
		secondary: opts.Secondary,
		retimer:   opts.Retimer,
		provider:  provider,
		speed:     speed,
		timeout:   timeout,
		logger:    logging.NewComponentLogger(logger, "narration"),
	}, nil
}

// Key computes the cache key Resolve would use for the inputs.
func (r *Resolver) Key(text, languageName, voiceID string) CacheKey {
	text = strings.TrimSpace(text)
	code := r.registry.Resolve(languageName, text)
	return NewCacheKey(text, code, string(r.provider), r.speed, voiceID)
}

// Resolve returns the asset for text spoken in languageName, synthesizing it
// into dir when no cached copy exists. Provider failures fall back to the
// primary provider; only a primary failure is returned.
func (r *Resolver) Resolve(ctx context.Context, dir, text, languageName, voiceID string) (Asset, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Asset{}, services.Wrap(services.ErrInput, "narration", "resolve", "empty text", nil)
	}
	if strings.TrimSpace(dir) == "" {
		return Asset{}, services.Wrap(services.ErrConfiguration, "narration", "resolve", "work dir required", nil)
	}
	code := r.registry.Resolve(languageName, text)
	key := NewCacheKey(text, code, string(r.provider), r.speed, voiceID)
	path := filepath.Join(dir, key.FileName())

	if fileutil.Exists(path) {
		return Asset{Path: path, Key: key, Provider: string(r.provider), Cached: true}, nil
	}

	value, err, shared := r.group.Do(path, func() (any, error) {
		if fileutil.Exists(path) {
			return Asset{Path: path, Key: key, Provider: string(r.provider), Cached: true}, nil
		}
		provider, err := r.synthesize(ctx, path, text, code, voiceID)
		if err != nil {
			return Asset{}, err
		}
		return Asset{Path: path, Key: key, Provider: provider}, nil
	})
	if err != nil {
		return Asset{}, err
	}
	asset := value.(Asset)
	if shared {
		asset.Cached = true
	}
	return asset, nil
}

func (r *Resolver) synthesize(ctx context.Context, path, text, code, voiceID string) (string, error) {
	logger := logging.WithContext(ctx, r.logger)

	if r.secondary != nil && r.provider == config.ProviderSecondary {
		audio, err := r.synthesizeCloud(ctx, text, code, voiceID)
		if err == nil {
			if err := fileutil.WriteFileAtomic(path, audio, 0o644); err != nil {
				return "", services.Wrap(services.ErrEncoding, "narration", "write asset", path, err)
			}
			logger.Debug("cloud speech synthesized",
				logging.String("language", code),
				logging.String("voice", voiceID),
				logging.Int("bytes", len(audio)),
			)
			return r.secondary.Name(), nil
		}
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrCanceled, "narration", "resolve", "", ctx.Err())
		}
		logging.WarnWithContext(logger, "cloud synthesis failed; falling back to primary provider", "tts_fallback",
			logging.Error(err),
			logging.String("language", code),
			logging.String("voice", voiceID),
			logging.String(logging.FieldImpact, "phrase narrated by the free provider"),
			logging.String(logging.FieldErrorHint, "check the tts api_key, quota and voice id"),
		)
	}

	audio, err := r.primary.Synthesize(ctx, tts.Request{Text: text, LanguageCode: code, Rate: 1})
	if err != nil {
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrCanceled, "narration", "resolve", "", ctx.Err())
		}
		return "", services.Wrap(services.ErrProvider, "narration", "primary synthesize", code, err)
	}
	if r.needsRetempo() {
		err := r.writeRetimed(ctx, path, audio)
		if err == nil {
			return r.primary.Name(), nil
		}
		if ctx.Err() != nil {
			return "", services.Wrap(services.ErrCanceled, "narration", "resolve", "", ctx.Err())
		}
		logging.WarnWithContext(logger, "tempo change failed; keeping original speed", "tts_retempo_failed",
			logging.Error(err),
			logging.Float64("speed", r.speed),
			logging.String(logging.FieldImpact, "phrase plays at normal speed"),
			logging.String(logging.FieldErrorHint, "verify ffmpeg is installed and supports atempo"),
		)
	}
	if err := fileutil.WriteFileAtomic(path, audio, 0o644); err != nil {
		return "", services.Wrap(services.ErrEncoding, "narration", "write asset", path, err)
	}
	return r.primary.Name(), nil
}

func (r *Resolver) synthesizeCloud(ctx context.Context, text, code, voiceID string) ([]byte, error) {
	requestCode := code
	if voiceCode := tts.VoiceLanguageCode(voiceID); voiceCode != "" {
		requestCode = voiceCode
	}
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.secondary.Synthesize(callCtx, tts.Request{
		Text:         text,
		LanguageCode: requestCode,
		Voice:        voiceID,
		Rate:         r.speed,
	})
}

func (r *Resolver) needsRetempo() bool {
	return r.retimer != nil && math.Abs(r.speed-1) > 1e-9
}

// writeRetimed stores the raw audio beside path, stretches it into a temp
// output and renames that over path.
func (r *Resolver) writeRetimed(ctx context.Context, path string, audio []byte) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	raw, err := os.CreateTemp(dir, ".raw-*-"+base)
	if err != nil {
		return err
	}
	rawPath := raw.Name()
	defer os.Remove(rawPath)
	if _, err := raw.Write(audio); err != nil {
		raw.Close()
		return err
	}
	if err := raw.Close(); err != nil {
		return err
	}

	partial := filepath.Join(dir, ".part-"+base)
	defer os.Remove(partial)
	if err := r.retimer.Retempo(ctx, rawPath, partial, r.speed); err != nil {
		return err
	}
	if !fileutil.Exists(partial) {
		return errors.New("retimer produced no output")
	}
	return os.Rename(partial, path)
}
