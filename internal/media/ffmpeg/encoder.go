package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeggo "github.com/u2takey/ffmpeg-go"

	"bilingo/internal/fileutil"
	"bilingo/internal/services"
)

const (
	// DefaultFrameRate is the output frame rate when none is configured.
	DefaultFrameRate = 24
	videoCodec       = "libx264"
	audioCodec       = "aac"
	audioBitrate     = "192k"
	audioSampleRate  = 44100

	minTempoStep = 0.5
	maxTempoStep = 2.0
)

// Runner executes a command to completion.
type Runner func(ctx context.Context, name string, args ...string) error

// SegmentSpec describes one slide held for Duration seconds with audio1 at
// t=0 and audio2 starting at Audio2Offset.
type SegmentSpec struct {
	Image        string
	Audio1       string
	Audio2       string
	Audio2Offset float64
	Duration     float64
	FrameRate    int
	Output       string
}

// Encoder drives the ffmpeg binary.
type Encoder struct {
	binary string
	run    Runner
}

// NewEncoder builds an Encoder. An empty binary defaults to "ffmpeg"; a nil
// runner executes the binary with os/exec.
func NewEncoder(binary string, run Runner) *Encoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	if run == nil {
		run = execRun
	}
	return &Encoder{binary: binary, run: run}
}

// SegmentArgs returns the ffmpeg arguments for spec.
func SegmentArgs(spec SegmentSpec) ([]string, error) {
	if spec.Image == "" || spec.Audio1 == "" || spec.Audio2 == "" || spec.Output == "" {
		return nil, services.Wrap(services.ErrInput, "ffmpeg", "segment", "image, both audio clips and output are required", nil)
	}
	if spec.Duration <= 0 || math.IsNaN(spec.Duration) {
		return nil, services.Wrap(services.ErrInput, "ffmpeg", "segment", fmt.Sprintf("invalid duration %v", spec.Duration), nil)
	}
	if spec.Audio2Offset < 0 {
		return nil, services.Wrap(services.ErrInput, "ffmpeg", "segment", fmt.Sprintf("invalid audio offset %v", spec.Audio2Offset), nil)
	}
	fps := spec.FrameRate
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	total := seconds(spec.Duration)

	frame := ffmpeggo.Input(spec.Image, ffmpeggo.KwArgs{
		"loop":      1,
		"framerate": fps,
		"t":         total,
	}).Video()

	first := ffmpeggo.Input(spec.Audio1).Audio()
	delayMillis := int64(math.Round(spec.Audio2Offset * 1000))
	second := ffmpeggo.Input(spec.Audio2).Audio().
		Filter("adelay", nil, ffmpeggo.KwArgs{"delays": delayMillis, "all": 1})

	mixed := ffmpeggo.Filter([]*ffmpeggo.Stream{first, second}, "amix", nil, ffmpeggo.KwArgs{
		"inputs":    2,
		"duration":  "longest",
		"normalize": 0,
	}).
		Filter("apad", nil).
		Filter("atrim", nil, ffmpeggo.KwArgs{"duration": total})

	out := ffmpeggo.Output([]*ffmpeggo.Stream{frame, mixed}, spec.Output, ffmpeggo.KwArgs{
		"c:v":     videoCodec,
		"tune":    "stillimage",
		"pix_fmt": "yuv420p",
		"r":       fps,
		"c:a":     audioCodec,
		"b:a":     audioBitrate,
		"ar":      audioSampleRate,
		"t":       total,
	})
	return finalize(out), nil
}

// EncodeSegment renders one segment file.
func (e *Encoder) EncodeSegment(ctx context.Context, spec SegmentSpec) error {
	args, err := SegmentArgs(spec)
	if err != nil {
		return err
	}
	if err := e.run(ctx, e.binary, args...); err != nil {
		return wrapRunError(ctx, "encode segment", spec.Output, err)
	}
	return nil
}

// ConcatArgs returns the arguments that join the segments listed in listFile.
func ConcatArgs(listFile, output string) []string {
	out := ffmpeggo.Input(listFile, ffmpeggo.KwArgs{"f": "concat", "safe": 0}).
		Output(output, ffmpeggo.KwArgs{"c": "copy", "movflags": "+faststart"})
	return finalize(out)
}

// Concat joins segments in order into output without re-encoding. Segments
// must share codec parameters, which EncodeSegment guarantees. The result is
// written beside output and renamed into place, so a failed join leaves any
// existing file at output untouched.
func (e *Encoder) Concat(ctx context.Context, segments []string, output string) error {
	if len(segments) == 0 {
		return services.Wrap(services.ErrInput, "ffmpeg", "concat", "no segments", nil)
	}
	if strings.TrimSpace(output) == "" {
		return services.Wrap(services.ErrInput, "ffmpeg", "concat", "output path required", nil)
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "create output dir", err)
		}
	}
	listFile := filepath.Join(filepath.Dir(segments[0]), "segments.txt")
	if err := fileutil.WriteFileAtomic(listFile, []byte(ConcatList(segments)), 0o644); err != nil {
		return services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "write segment list", err)
	}
	partial, err := partialPath(output)
	if err != nil {
		return services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "create partial output", err)
	}
	if err := e.run(ctx, e.binary, ConcatArgs(listFile, partial)...); err != nil {
		_ = os.Remove(partial)
		return wrapRunError(ctx, "concat", output, err)
	}
	if err := os.Rename(partial, output); err != nil {
		_ = os.Remove(partial)
		return services.Wrap(services.ErrEncoding, "ffmpeg", "concat", "replace output", err)
	}
	return nil
}

// partialPath reserves a hidden file next to output that keeps its extension,
// since ffmpeg picks the container from it.
func partialPath(output string) (string, error) {
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(filepath.Base(output), ext)
	f, err := os.CreateTemp(filepath.Dir(output), "."+stem+".partial-*"+ext)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// ConcatList renders the concat demuxer list for segments.
func ConcatList(segments []string) string {
	var b strings.Builder
	for _, seg := range segments {
		abs, err := filepath.Abs(seg)
		if err != nil {
			abs = seg
		}
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

// TempoSteps splits factor into atempo stages within [0.5, 2.0] whose
// product equals factor.
func TempoSteps(factor float64) []float64 {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil
	}
	var steps []float64
	for factor > maxTempoStep {
		steps = append(steps, maxTempoStep)
		factor /= maxTempoStep
	}
	for factor < minTempoStep {
		steps = append(steps, minTempoStep)
		factor /= minTempoStep
	}
	return append(steps, factor)
}

// RetempoArgs returns the arguments that change the tempo of input by factor.
func RetempoArgs(input, output string, factor float64) ([]string, error) {
	steps := TempoSteps(factor)
	if len(steps) == 0 {
		return nil, services.Wrap(services.ErrInput, "ffmpeg", "retempo", fmt.Sprintf("invalid factor %v", factor), nil)
	}
	stream := ffmpeggo.Input(input).Audio()
	for _, step := range steps {
		stream = stream.Filter("atempo", ffmpeggo.Args{fmt.Sprintf("%.6g", step)})
	}
	out := stream.Output(output, ffmpeggo.KwArgs{"c:a": "libmp3lame", "q:a": 2})
	return finalize(out), nil
}

// Retempo writes a copy of input played at factor times its original speed.
func (e *Encoder) Retempo(ctx context.Context, input, output string, factor float64) error {
	args, err := RetempoArgs(input, output, factor)
	if err != nil {
		return err
	}
	if err := e.run(ctx, e.binary, args...); err != nil {
		return wrapRunError(ctx, "retempo", output, err)
	}
	return nil
}

func finalize(stream *ffmpeggo.Stream) []string {
	return stream.GlobalArgs("-hide_banner", "-loglevel", "error", "-nostdin", "-y").GetArgs()
}

func seconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func wrapRunError(ctx context.Context, operation, target string, err error) error {
	if ctx.Err() != nil {
		return services.Wrap(services.ErrCanceled, "ffmpeg", operation, target, ctx.Err())
	}
	return services.Wrap(services.ErrEncoding, "ffmpeg", operation, target, err)
}

func execRun(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, lastLines(msg, 5))
		}
		return err
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
