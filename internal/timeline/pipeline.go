package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bilingo/internal/config"
	"bilingo/internal/fileutil"
	"bilingo/internal/logging"
	"bilingo/internal/media/ffmpeg"
	"bilingo/internal/narration"
	"bilingo/internal/services"
	"bilingo/internal/sheet"
	"bilingo/internal/tts"
)

// Event is a progress update.
type Event struct {
	Fraction float64
	Message  string
}

// SlideRenderer draws a frame for a phrase pair.
type SlideRenderer interface {
	RenderFile(text1, text2, path string) error
}

// AudioResolver produces narration assets.
type AudioResolver interface {
	Resolve(ctx context.Context, dir, text, languageName, voiceID string) (narration.Asset, error)
}

// DurationProber measures audio clips.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// MediaEncoder writes segment and final video files.
type MediaEncoder interface {
	EncodeSegment(ctx context.Context, spec ffmpeg.SegmentSpec) error
	Concat(ctx context.Context, segments []string, output string) error
}

// Options wires a Pipeline.
type Options struct {
	Config      config.Generation
	Renderer    SlideRenderer
	Resolver    AudioResolver
	Prober      DurationProber
	Encoder     MediaEncoder
	Catalog     tts.VoiceCatalog
	Workers     int
	WorkRoot    string
	KeepWorkDir bool
	Logger      *slog.Logger
}

// Pipeline is the slideshow orchestrator.
type Pipeline struct {
	cfg      config.Generation
	renderer SlideRenderer
	resolver AudioResolver
	prober   DurationProber
	encoder  MediaEncoder
	catalog  tts.VoiceCatalog
	workers  int
	workRoot string
	keep     bool
	logger   *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Output   string
	WorkDir  string
	Segments []Segment
	Duration float64
	Elapsed  time.Duration
}

// New validates opts and returns a Pipeline.
func New(opts Options) (*Pipeline, error) {
	switch {
	case opts.Renderer == nil:
		return nil, services.Wrap(services.ErrConfiguration, "timeline", "new", "renderer required", nil)
	case opts.Resolver == nil:
		return nil, services.Wrap(services.ErrConfiguration, "timeline", "new", "resolver required", nil)
	case opts.Prober == nil:
		return nil, services.Wrap(services.ErrConfiguration, "timeline", "new", "prober required", nil)
	case opts.Encoder == nil:
		return nil, services.Wrap(services.ErrConfiguration, "timeline", "new", "encoder required", nil)
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:      opts.Config,
		renderer: opts.Renderer,
		resolver: opts.Resolver,
		prober:   opts.Prober,
		encoder:  opts.Encoder,
		catalog:  opts.Catalog,
		workers:  workers,
		workRoot: opts.WorkRoot,
		keep:     opts.KeepWorkDir,
		logger:   logging.NewComponentLogger(logger, "timeline"),
	}, nil
}

// Run renders rows into a single video at output. Rows are processed by up to
// Workers goroutines; segments are always joined in row order. Events, when
// non-nil, receives monotonic progress and is not closed by Run.
func (p *Pipeline) Run(ctx context.Context, rows []sheet.Row, lang1, lang2, output string, events chan<- Event) (Result, error) {
	if len(rows) == 0 {
		return Result{}, services.Wrap(services.ErrInput, "timeline", "run", "nothing to render", nil)
	}
	if strings.TrimSpace(output) == "" {
		return Result{}, services.Wrap(services.ErrInput, "timeline", "run", "output path required", nil)
	}

	rc, err := p.NewRunContext()
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			logging.WarnWithContext(p.logger, "work dir cleanup failed", "work_dir_cleanup_failed",
				logging.String("work_dir", rc.WorkDir),
				logging.Error(cerr),
				logging.String(logging.FieldImpact, "temporary files remain on disk"),
			)
		}
	}()
	return p.RunWith(ctx, rc, rows, lang1, lang2, output, events)
}

// NewRunContext creates a work area under the configured root. Callers that
// need the run id before rendering starts pass it to RunWith and Close it.
func (p *Pipeline) NewRunContext() (*RunContext, error) {
	rc, err := NewRunContext(p.workRoot, p.keep)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "timeline", "run", "create work area", err)
	}
	return rc, nil
}

// RunWith is Run against a caller-owned RunContext.
func (p *Pipeline) RunWith(ctx context.Context, rc *RunContext, rows []sheet.Row, lang1, lang2, output string, events chan<- Event) (Result, error) {
	if len(rows) == 0 {
		return Result{}, services.Wrap(services.ErrInput, "timeline", "run", "nothing to render", nil)
	}
	started := time.Now()
	ctx = services.WithRunID(ctx, rc.ID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("generation started",
		logging.String(logging.FieldEventType, "generation_started"),
		logging.Int("rows", len(rows)),
		logging.String("language_1", lang1),
		logging.String("language_2", lang2),
		logging.String("provider", string(p.cfg.Provider)),
		logging.Int("workers", p.workers),
		logging.String("work_dir", rc.WorkDir),
	)

	total := len(rows)
	segments := make([]Segment, total)
	sampler := logging.NewProgressSampler(25)

	group, gctx := errgroup.WithContext(ctx)
	slots := make(chan struct{}, p.workers)

dispatch:
	for i := range rows {
		select {
		case slots <- struct{}{}:
		case <-gctx.Done():
			break dispatch
		}
		if gctx.Err() != nil {
			break
		}
		fraction := float64(i) / float64(total)
		message := fmt.Sprintf("Processing slide %d/%d", i+1, total)
		p.emit(gctx, events, Event{Fraction: fraction, Message: message})
		if sampler.ShouldLog(fraction*100, "rows") {
			logger.Info("generation progress",
				logging.String(logging.FieldEventType, "generation_progress"),
				logging.Int("row", i),
				logging.Int("rows", total),
			)
		}

		index, row := i, rows[i]
		group.Go(func() error {
			defer func() { <-slots }()
			seg, err := p.processRow(gctx, rc, index, row, lang1, lang2)
			if err != nil {
				return err
			}
			segments[index] = seg
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Result{}, p.fail(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, p.fail(ctx, services.Wrap(services.ErrCanceled, "timeline", "run", "", err))
	}

	paths := make([]string, 0, total)
	duration := 0.0
	for _, seg := range segments {
		paths = append(paths, seg.Path)
		duration += seg.TotalDuration()
	}
	if err := p.encoder.Concat(ctx, paths, output); err != nil {
		return Result{}, p.fail(ctx, err)
	}
	if !fileutil.Exists(output) {
		return Result{}, p.fail(ctx, services.Wrap(services.ErrEncoding, "timeline", "concat", "encoder reported success but produced no output", nil))
	}

	p.emit(ctx, events, Event{Fraction: 1, Message: "Done!"})
	result := Result{
		RunID:    rc.ID,
		Output:   output,
		WorkDir:  rc.WorkDir,
		Segments: segments,
		Duration: duration,
		Elapsed:  time.Since(started),
	}
	logger.Info("generation completed",
		logging.String(logging.FieldEventType, "generation_completed"),
		logging.String("output", output),
		logging.Int("segments", len(segments)),
		logging.Float64("duration_seconds", duration),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (p *Pipeline) processRow(ctx context.Context, rc *RunContext, index int, row sheet.Row, lang1, lang2 string) (Segment, error) {
	if err := ctx.Err(); err != nil {
		return Segment{}, services.Wrap(services.ErrCanceled, "timeline", "row", "", err)
	}
	ctx = services.WithRow(ctx, index)
	logger := logging.WithContext(ctx, p.logger)

	slidePath := rc.SlidePath(index)
	if err := p.renderer.RenderFile(row.Text1, row.Text2, slidePath); err != nil {
		return Segment{}, rowError(index, "render slide", err)
	}

	audio1, err := p.resolver.Resolve(ctx, rc.AudioDir(), row.Text1, lang1, p.cfg.Voice(0))
	if err != nil {
		return Segment{}, rowError(index, "narrate text 1", err)
	}
	audio2, err := p.resolver.Resolve(ctx, rc.AudioDir(), row.Text2, lang2, p.cfg.Voice(1))
	if err != nil {
		return Segment{}, rowError(index, "narrate text 2", err)
	}

	d1, err := p.prober.Duration(ctx, audio1.Path)
	if err != nil {
		return Segment{}, rowError(index, "measure audio 1", err)
	}
	d2, err := p.prober.Duration(ctx, audio2.Path)
	if err != nil {
		return Segment{}, rowError(index, "measure audio 2", err)
	}

	seg := Segment{
		Index:         index,
		Slide:         slidePath,
		Audio1:        audio1,
		Audio2:        audio2,
		Duration1:     d1,
		Duration2:     d2,
		SentencePause: p.cfg.SentencePause,
		SlidePause:    p.cfg.SlidePause,
		Path:          rc.SegmentPath(index),
	}
	spec := ffmpeg.SegmentSpec{
		Image:        seg.Slide,
		Audio1:       audio1.Path,
		Audio2:       audio2.Path,
		Audio2Offset: seg.Audio2Offset(),
		Duration:     seg.TotalDuration(),
		FrameRate:    p.cfg.FrameRate,
		Output:       seg.Path,
	}
	if err := p.encoder.EncodeSegment(ctx, spec); err != nil {
		return Segment{}, rowError(index, "encode segment", err)
	}
	logger.Debug("segment assembled",
		logging.String(logging.FieldEventType, "segment_assembled"),
		logging.Float64("audio_1_seconds", d1),
		logging.Float64("audio_2_seconds", d2),
		logging.Float64("total_seconds", seg.TotalDuration()),
		logging.Bool("audio_1_cached", audio1.Cached),
		logging.Bool("audio_2_cached", audio2.Cached),
	)
	return seg, nil
}

func rowError(index int, operation string, err error) error {
	return fmt.Errorf("row %d: %s: %w", index+1, operation, err)
}

func (p *Pipeline) emit(ctx context.Context, events chan<- Event, ev Event) {
	if events == nil {
		return
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func (p *Pipeline) fail(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && !errors.Is(err, services.ErrCanceled) {
		err = services.Wrap(services.ErrCanceled, "timeline", "run", "", err)
	}
	logging.ErrorWithContext(logging.WithContext(ctx, p.logger), "generation failed", "generation_failed",
		logging.Error(err),
		logging.String("error_class", string(services.Classify(err))),
		logging.String(logging.FieldErrorHint, services.Hint(err)),
	)
	return err
}

// Voices returns the cloud voice catalog. Without a credential the catalog is
// empty and no request is made.
func (p *Pipeline) Voices(ctx context.Context) ([]tts.Voice, error) {
	if p.catalog == nil || !p.cfg.HasCredential() {
		return []tts.Voice{}, nil
	}
	voices, err := p.catalog.Voices(ctx)
	if err != nil {
		logging.WarnWithContext(p.logger, "voice catalog unavailable", "voice_catalog_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "voice overrides cannot be listed"),
			logging.String(logging.FieldErrorHint, "check the tts api_key"),
		)
		return nil, err
	}
	return voices, nil
}

// PreviewAudio narrates a single phrase and copies the asset to output.
func (p *Pipeline) PreviewAudio(ctx context.Context, text, languageName, voiceID, output string) (narration.Asset, error) {
	if strings.TrimSpace(output) == "" {
		return narration.Asset{}, services.Wrap(services.ErrInput, "timeline", "preview", "output path required", nil)
	}
	rc, err := NewRunContext(p.workRoot, false)
	if err != nil {
		return narration.Asset{}, services.Wrap(services.ErrConfiguration, "timeline", "preview", "create work area", err)
	}
	defer rc.Close()

	asset, err := p.resolver.Resolve(services.WithRunID(ctx, rc.ID), rc.AudioDir(), text, languageName, voiceID)
	if err != nil {
		return narration.Asset{}, err
	}
	if err := fileutil.CopyFile(asset.Path, output); err != nil {
		return narration.Asset{}, services.Wrap(services.ErrEncoding, "timeline", "preview", "copy audio", err)
	}
	asset.Path = output
	return asset, nil
}
