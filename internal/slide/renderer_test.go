package slide

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"bilingo/internal/config"
	"bilingo/internal/logging"
)

func testConfig(width, height int) config.Generation {
	return config.Generation{
		FontName:          "bilingo-missing-font",
		FontSize:          40,
		TextColor:         color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Width:             width,
		Height:            height,
		BackgroundOpacity: 0.5,
	}
}

func writeSolidPNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestOverlayAlpha(t *testing.T) {
	tests := map[float64]uint8{0: 255, 1: 0, 0.5: 128, -1: 255, 2: 0}
	for visibility, want := range tests {
		if got := overlayAlpha(visibility); got != want {
			t.Errorf("overlayAlpha(%v) = %d, want %d", visibility, got, want)
		}
	}
}

func TestCoverRectMatchesFrameAspect(t *testing.T) {
	tests := []image.Rectangle{
		image.Rect(0, 0, 400, 100),
		image.Rect(0, 0, 100, 400),
		image.Rect(0, 0, 1920, 1080),
		image.Rect(10, 20, 810, 620),
	}
	for _, src := range tests {
		r := coverRect(src, 1920, 1080)
		if !r.In(src) {
			t.Fatalf("crop %v escapes source %v", r, src)
		}
		aspect := float64(r.Dx()) / float64(r.Dy())
		if math.Abs(aspect-1920.0/1080.0) > 0.05 {
			t.Fatalf("crop %v of %v has aspect %.3f", r, src, aspect)
		}
		if r.Dx() != src.Dx() && r.Dy() != src.Dy() {
			t.Fatalf("crop %v should keep one full source dimension of %v", r, src)
		}
		cx := (r.Min.X + r.Max.X) / 2
		scx := (src.Min.X + src.Max.X) / 2
		if d := cx - scx; d < -1 || d > 1 {
			t.Fatalf("crop %v not horizontally centered in %v", r, src)
		}
	}
}

func TestRenderWithoutBackgroundUsesBuiltinFont(t *testing.T) {
	r, err := NewRenderer(testConfig(640, 360), logging.NewNop())
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r.FontSource() != BuiltinFontSource {
		t.Fatalf("FontSource = %q", r.FontSource())
	}
	frame, err := r.Render("I have a car", "J'ai une voiture")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if frame.Bounds() != image.Rect(0, 0, 640, 360) {
		t.Fatalf("unexpected bounds %v", frame.Bounds())
	}
	if got := frame.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Fatalf("corner should be black, got %v", got)
	}
	lit := 0
	for i := 0; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] > 200 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("expected text pixels on the frame")
	}
}

func TestRenderBackgroundVisibility(t *testing.T) {
	bg := filepath.Join(t.TempDir(), "bg.png")
	writeSolidPNG(t, bg, 160, 90, color.RGBA{R: 200, A: 255})

	tests := []struct {
		opacity float64
		wantR   uint8
	}{
		{1, 200},
		{0, 0},
		{0.5, 100},
	}
	for _, tt := range tests {
		cfg := testConfig(320, 180)
		cfg.BackgroundImage = bg
		cfg.BackgroundOpacity = tt.opacity
		r, err := NewRenderer(cfg, nil)
		if err != nil {
			t.Fatalf("NewRenderer: %v", err)
		}
		frame, err := r.Render("a", "b")
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		got := frame.RGBAAt(2, 2).R
		if diff := int(got) - int(tt.wantR); diff < -2 || diff > 2 {
			t.Fatalf("opacity %v: corner red = %d, want about %d", tt.opacity, got, tt.wantR)
		}
	}
}

func TestMissingBackgroundFallsBackToBlack(t *testing.T) {
	cfg := testConfig(320, 180)
	cfg.BackgroundImage = filepath.Join(t.TempDir(), "nope.jpg")
	cfg.BackgroundOpacity = 1
	r, err := NewRenderer(cfg, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	frame, err := r.Render("x", "y")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := frame.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Fatalf("expected black fallback, got %v", got)
	}
}

func TestLayoutGeometry(t *testing.T) {
	r, err := NewRenderer(testConfig(1920, 1080), nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r.Margin() != 100 {
		t.Fatalf("Margin = %v, want 100", r.Margin())
	}
	long := strings.Repeat("bilingual narration ", 20)
	l, err := r.Layout(long, "Bonjour le monde")
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if l.MaxWidth != 1720 {
		t.Fatalf("MaxWidth = %v", l.MaxWidth)
	}
	if len(l.Lines1) < 2 || len(l.Lines2) != 1 {
		t.Fatalf("unexpected line counts %d/%d", len(l.Lines1), len(l.Lines2))
	}
	if math.Abs(l.LineHeight-48) > 1e-9 {
		t.Fatalf("LineHeight = %v, want 48", l.LineHeight)
	}
	wantBlock := float64(len(l.Lines1)+len(l.Lines2)+1) * l.LineHeight
	if l.BlockHeight() != wantBlock {
		t.Fatalf("BlockHeight = %v, want %v", l.BlockHeight(), wantBlock)
	}
	if l.StartY != (1080-wantBlock)/2 {
		t.Fatalf("StartY = %v", l.StartY)
	}

	half, err := NewRenderer(testConfig(960, 540), nil)
	if err != nil {
		t.Fatal(err)
	}
	if half.Margin() != 50 {
		t.Fatalf("scaled margin = %v, want 50", half.Margin())
	}
}

func TestFontLookupInConfiguredDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	fontPath := filepath.Join(dir, "MyFont.TTF")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig(320, 180)
	cfg.FontName = "myfont"
	cfg.FontDirs = []string{filepath.Dir(dir)}
	r, err := NewRenderer(cfg, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r.FontSource() != fontPath {
		t.Fatalf("FontSource = %q, want %q", r.FontSource(), fontPath)
	}

	bad := filepath.Join(t.TempDir(), "Broken.ttf")
	if err := os.WriteFile(bad, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.FontName = bad
	r, err = NewRenderer(cfg, nil)
	if err != nil {
		t.Fatalf("NewRenderer with broken font: %v", err)
	}
	if r.FontSource() != BuiltinFontSource {
		t.Fatalf("expected built-in fallback, got %q", r.FontSource())
	}
}

func TestRenderFileWritesPNG(t *testing.T) {
	r, err := NewRenderer(testConfig(200, 100), nil)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "slide_0000.png")
	if err := r.RenderFile("Hello world", "Bonjour le monde", path); err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Fatalf("unexpected size %dx%d", cfg.Width, cfg.Height)
	}
}

func TestNewRendererRejectsInvalidResolution(t *testing.T) {
	if _, err := NewRenderer(testConfig(0, 100), nil); err == nil {
		t.Fatal("expected error")
	}
}
