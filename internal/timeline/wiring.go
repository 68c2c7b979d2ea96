package timeline

import (
	"context"
	"log/slog"
	"net/http"

	"bilingo/internal/config"
	"bilingo/internal/language"
	"bilingo/internal/media/ffmpeg"
	"bilingo/internal/media/ffprobe"
	"bilingo/internal/narration"
	"bilingo/internal/slide"
	"bilingo/internal/tts"
)

// NewFromConfig wires the production renderer, narration providers and
// ffmpeg tooling for cfg.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	gen := cfg.GenerationConfig()

	renderer, err := slide.NewRenderer(gen, logger)
	if err != nil {
		return nil, err
	}
	encoder := ffmpeg.NewEncoder(cfg.FFmpegBinary(), nil)
	prober := ffprobe.NewProber(cfg.FFprobeBinary(), nil)

	freeOpts := []tts.FreeOption{tts.WithBaseURL(cfg.TTS.BaseURL)}
	if gen.ProviderTimeout > 0 {
		freeOpts = append(freeOpts, tts.WithHTTPClient(&http.Client{Timeout: gen.ProviderTimeout}))
	}
	primary := tts.NewFree(freeOpts...)

	var (
		secondary tts.Synthesizer
		catalog   tts.VoiceCatalog
	)
	if gen.HasCredential() {
		cloud, err := tts.NewCloud(ctx, tts.CloudConfig{APIKey: gen.Credential, Endpoint: cfg.TTS.CloudEndpoint})
		if err != nil {
			return nil, err
		}
		catalog = cloud
		if gen.UsesCloud() {
			secondary = cloud
		}
	}

	registry := language.NewRegistry(language.TrigramDetector{}, language.WithLogger(logger))
	resolver, err := narration.NewResolver(narration.Options{
		Registry:  registry,
		Primary:   primary,
		Secondary: secondary,
		Retimer:   encoder,
		Provider:  gen.Provider,
		Speed:     gen.Speed,
		Timeout:   gen.ProviderTimeout,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	return New(Options{
		Config:      gen,
		Renderer:    renderer,
		Resolver:    resolver,
		Prober:      prober,
		Encoder:     encoder,
		Catalog:     catalog,
		Workers:     cfg.Pipeline.Workers,
		WorkRoot:    cfg.Paths.WorkDir,
		KeepWorkDir: cfg.Pipeline.KeepWorkDir,
		Logger:      logger,
	})
}
