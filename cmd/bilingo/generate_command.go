package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"bilingo/internal/config"
	"bilingo/internal/history"
	"bilingo/internal/logging"
	"bilingo/internal/notifications"
	"bilingo/internal/preflight"
	"bilingo/internal/publish"
	"bilingo/internal/services"
	"bilingo/internal/sheet"
	"bilingo/internal/timeline"
)

type generateOptions struct {
	output      string
	language1   string
	language2   string
	provider    string
	voice1      string
	voice2      string
	speed       float64
	workers     int
	keepWorkDir bool
	publish     bool
	noProgress  bool
	skipChecks  bool
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate <spreadsheet>",
		Short: "Render a spreadsheet of phrase pairs into a narrated slideshow",
		Long: `Render every row of the first sheet (xlsx, csv or tsv) into one slide with
both phrases, narrate each phrase in its language and join the slides into a
single MP4. The first column holds language 1, the second language 2.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output video path (default: <input>_slideshow.mp4)")
	flags.StringVar(&opts.language1, "language-1", "", "Language of the first column (overrides config)")
	flags.StringVar(&opts.language2, "language-2", "", "Language of the second column (overrides config)")
	flags.StringVar(&opts.provider, "provider", "", "Speech provider: primary (free) or secondary (cloud)")
	flags.StringVar(&opts.voice1, "voice-1", "", "Cloud voice for the first column")
	flags.StringVar(&opts.voice2, "voice-2", "", "Cloud voice for the second column")
	flags.Float64Var(&opts.speed, "speed", 0, "Speech rate multiplier")
	flags.IntVar(&opts.workers, "workers", 0, "Rows processed in parallel")
	flags.BoolVar(&opts.keepWorkDir, "keep-work-dir", false, "Keep slides, narration and segments after the run")
	flags.BoolVar(&opts.publish, "publish", false, "Upload the finished video to the configured bucket")
	flags.BoolVar(&opts.noProgress, "no-progress", false, "Print progress as plain lines")
	flags.BoolVar(&opts.skipChecks, "skip-checks", false, "Skip the tool and directory checks before rendering")
	return cmd
}

// applyGenerateOverrides returns a copy of cfg with the flags the user set.
func applyGenerateOverrides(flags *pflag.FlagSet, cfg *config.Config, opts generateOptions) (*config.Config, error) {
	local := *cfg
	if flags.Changed("language-1") {
		local.Languages.Language1 = strings.TrimSpace(opts.language1)
	}
	if flags.Changed("language-2") {
		local.Languages.Language2 = strings.TrimSpace(opts.language2)
	}
	if flags.Changed("provider") {
		provider, ok := config.ParseProvider(opts.provider)
		if !ok {
			return nil, fmt.Errorf("--provider must be %q or %q (got %q)", config.ProviderPrimary, config.ProviderSecondary, opts.provider)
		}
		local.TTS.Provider = string(provider)
	}
	if flags.Changed("voice-1") {
		local.TTS.Voice1 = strings.TrimSpace(opts.voice1)
	}
	if flags.Changed("voice-2") {
		local.TTS.Voice2 = strings.TrimSpace(opts.voice2)
	}
	if flags.Changed("speed") {
		local.TTS.Speed = opts.speed
	}
	if flags.Changed("workers") {
		local.Pipeline.Workers = opts.workers
	}
	if flags.Changed("keep-work-dir") {
		local.Pipeline.KeepWorkDir = opts.keepWorkDir
	}
	if flags.Changed("publish") {
		local.Publish.Enabled = opts.publish
	}
	if err := local.Validate(); err != nil {
		return nil, err
	}
	return &local, nil
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, inputArg string, opts generateOptions) error {
	baseCfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyGenerateOverrides(cmd.Flags(), baseCfg, opts)
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	input, err := config.ExpandPath(inputArg)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	table, err := sheet.Load(input)
	if err != nil {
		return err
	}
	if len(table.Rows) == 0 {
		return fmt.Errorf("%s contains no phrase rows", input)
	}
	output := sheet.DefaultOutputPath(input)
	if strings.TrimSpace(opts.output) != "" {
		if output, err = config.ExpandPath(opts.output); err != nil {
			return fmt.Errorf("resolve output path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !opts.skipChecks {
		if failed := preflight.Failed(preflight.RunAll(cmd.Context(), cfg)); len(failed) > 0 {
			return preflightError(failed)
		}
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := timeline.NewFromConfig(runCtx, cfg, logger)
	if err != nil {
		return err
	}
	rc, err := pipe.NewRunContext()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			logging.WarnWithContext(logger, "work dir cleanup failed", "work_dir_cleanup_failed",
				logging.String("work_dir", rc.WorkDir),
				logging.Error(cerr),
				logging.String(logging.FieldImpact, "temporary files remain on disk"),
			)
		}
	}()

	gen := cfg.GenerationConfig()
	recorder := openRecorder(cmd.Context(), cfg, logger)
	defer recorder.Close()
	recorder.Start(history.Run{
		RunID:      rc.ID,
		InputPath:  input,
		OutputPath: output,
		Language1:  cfg.Languages.Language1,
		Language2:  cfg.Languages.Language2,
		Provider:   string(gen.Provider),
		Rows:       len(table.Rows),
	})

	fmt.Fprintf(out, "Loaded %d rows from %s", len(table.Rows), input)
	if table.Skipped > 0 {
		fmt.Fprintf(out, " (%d incomplete rows skipped)", table.Skipped)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Narration: %s -> %s via %s, estimated cost %s\n",
		cfg.Languages.Language1, cfg.Languages.Language2, gen.Provider,
		timeline.EstimateCost(table.Rows, gen.Provider))

	reporter := newProgressReporter(out, !opts.noProgress && shouldColorize(out))
	events := make(chan timeline.Event, 8)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range events {
			reporter.Update(ev)
		}
	}()

	result, runErr := pipe.RunWith(runCtx, rc, table.Rows, cfg.Languages.Language1, cfg.Languages.Language2, output, events)
	close(events)
	<-drained
	reporter.Finish()

	if runErr != nil {
		recorder.Finish(rc.ID, history.Outcome{Err: runErr})
		notifyRun(cmd.Context(), cfg, logger, notifications.EventRunFailed, notifications.Payload{
			"input": filepath.Base(input),
			"error": runErr.Error(),
		})
		fmt.Fprintf(cmd.ErrOrStderr(), "Hint: %s\n", services.Hint(runErr))
		return runErr
	}

	var publishedURL string
	var publishErr error
	if cfg.Publish.Enabled {
		publishedURL, publishErr = publishOutput(runCtx, cfg.Publish, rc.ID, output)
	}
	recorder.Finish(rc.ID, history.Outcome{DurationSeconds: result.Duration, PublishedURL: publishedURL})

	notifyRun(cmd.Context(), cfg, logger, notifications.EventRunCompleted, notifications.Payload{
		"input":  filepath.Base(input),
		"slides": strconv.Itoa(len(result.Segments)),
		"length": videoLength(result.Duration).String(),
		"output": output,
		"url":    publishedURL,
	})
	printGenerateSummary(out, result, publishedURL, rc.Kept())
	if publishErr != nil {
		return fmt.Errorf("video written to %s but upload failed: %w", output, publishErr)
	}
	return nil
}

func publishOutput(ctx context.Context, cfg config.Publish, runID, output string) (string, error) {
	publisher, err := publish.NewFromConfig(ctx, cfg)
	if err != nil {
		return "", err
	}
	loc, err := publisher.Upload(ctx, runID, output)
	if err != nil {
		return "", err
	}
	return loc.URL(), nil
}

func printGenerateSummary(out io.Writer, result timeline.Result, publishedURL string, kept bool) {
	fmt.Fprintf(out, "Video written to %s\n", result.Output)
	fmt.Fprintf(out, "  Slides:   %d\n", len(result.Segments))
	fmt.Fprintf(out, "  Length:   %s\n", videoLength(result.Duration))
	if info, err := os.Stat(result.Output); err == nil {
		fmt.Fprintf(out, "  Size:     %s\n", humanize.Bytes(uint64(info.Size())))
	}
	fmt.Fprintf(out, "  Elapsed:  %s\n", result.Elapsed.Round(time.Millisecond))
	if kept {
		fmt.Fprintf(out, "  Work dir: %s\n", result.WorkDir)
	}
	if publishedURL != "" {
		fmt.Fprintf(out, "  Uploaded: %s\n", publishedURL)
	}
}

func videoLength(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second)
}

// notifyRun posts a run notice. Delivery failures are logged only.
func notifyRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(cfg.Notify.TimeoutSeconds+1)*time.Second)
	defer cancel()
	if err := notifications.NewService(cfg.Notify).Publish(notifyCtx, event, payload); err != nil {
		logging.WarnWithContext(logger, "run notification not delivered", "notification_failed",
			logging.Error(err),
			logging.String("event", string(event)),
			logging.String(logging.FieldImpact, "no push notice for this run"),
		)
	}
}

func preflightError(failed []preflight.Result) error {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return errors.New("preflight checks failed (run `bilingo status` for details): " + strings.Join(parts, "; "))
}

// runRecorder writes the run ledger. History is auxiliary: a store that
// cannot be opened or written is logged and the run continues.
type runRecorder struct {
	ctx    context.Context
	store  *history.Store
	logger *slog.Logger
}

func openRecorder(ctx context.Context, cfg *config.Config, logger *slog.Logger) *runRecorder {
	rec := &runRecorder{ctx: context.WithoutCancel(ctx), logger: logger}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		rec.warn("run history unavailable", "history_open_failed", err)
		return rec
	}
	rec.store = store
	return rec
}

func (r *runRecorder) Start(run history.Run) {
	if r.store == nil {
		return
	}
	if _, err := r.store.Start(r.ctx, run); err != nil {
		r.warn("run history not recorded", "history_start_failed", err)
		r.store.Close()
		r.store = nil
	}
}

func (r *runRecorder) Finish(runID string, outcome history.Outcome) {
	if r.store == nil {
		return
	}
	if _, err := r.store.Finish(r.ctx, runID, outcome); err != nil {
		r.warn("run outcome not recorded", "history_finish_failed", err)
	}
}

func (r *runRecorder) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

func (r *runRecorder) warn(msg, event string, err error) {
	logging.WarnWithContext(r.logger, msg, event,
		logging.Error(err),
		logging.String(logging.FieldImpact, "run will not appear in bilingo history"),
	)
}
