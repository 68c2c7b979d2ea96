package slide

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"bilingo/internal/config"
	"bilingo/internal/fileutil"
	"bilingo/internal/logging"
	"bilingo/internal/services"
	"bilingo/internal/textlayout"
)

const (
	referenceWidth  = 1920.0
	referenceMargin = 100.0
	lineSpacing     = 1.2
)

// Layout describes where the two text blocks land on a frame.
type Layout struct {
	Lines1     []string
	Lines2     []string
	LineHeight float64
	StartY     float64
	MaxWidth   float64
}

// BlockHeight returns the combined height of both blocks plus the one-line gap.
func (l Layout) BlockHeight() float64 {
	return float64(len(l.Lines1)+len(l.Lines2)+1) * l.LineHeight
}

// Renderer draws bilingual slides. The background (scaled, cropped and
// dimmed) is prepared once and shared by every slide; a Renderer is safe for
// concurrent use.
type Renderer struct {
	cfg        config.Generation
	font       *opentype.Font
	fontSource string
	background *image.RGBA
	logger     *slog.Logger
}

// NewRenderer prepares a renderer for cfg. Missing fonts and backgrounds are
// recovered with the built-in font and a black frame.
func NewRenderer(cfg config.Generation, logger *slog.Logger) (*Renderer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "slide", "new renderer",
			fmt.Sprintf("invalid resolution %dx%d", cfg.Width, cfg.Height), nil)
	}
	if cfg.FontSize <= 0 {
		return nil, services.Wrap(services.ErrConfiguration, "slide", "new renderer", "font size must be positive", nil)
	}
	r := &Renderer{cfg: cfg, logger: logging.NewComponentLogger(logger, "slide")}

	if err := r.loadFont(); err != nil {
		return nil, err
	}
	r.background = r.prepareBackground()
	return r, nil
}

// FontSource reports the font file in use, or BuiltinFontSource.
func (r *Renderer) FontSource() string {
	return r.fontSource
}

func (r *Renderer) loadFont() error {
	dirs := append(append([]string{}, r.cfg.FontDirs...), systemFontDirs()...)
	if path, ok := findFont(r.cfg.FontName, dirs); ok {
		f, err := parseFontFile(path)
		if err == nil {
			r.font = f
			r.fontSource = path
			return nil
		}
		logging.WarnWithContext(r.logger, "font unreadable; using built-in font", "font_fallback",
			logging.String("font", r.cfg.FontName),
			logging.String("path", path),
			logging.Error(services.Wrap(services.ErrAsset, "slide", "load font", path, err)),
			logging.String(logging.FieldImpact, "slides render with the built-in font"),
			logging.String(logging.FieldErrorHint, "point render.font_name at a .ttf or .otf file"),
		)
	} else {
		logging.WarnWithContext(r.logger, "font not found; using built-in font", "font_fallback",
			logging.String("font", r.cfg.FontName),
			logging.String(logging.FieldImpact, "slides render with the built-in font"),
			logging.String(logging.FieldErrorHint, "install the font or add its directory to render.font_dirs"),
		)
	}
	f, err := builtinFont()
	if err != nil {
		return services.Wrap(services.ErrAsset, "slide", "load font", "built-in font", err)
	}
	r.font = f
	r.fontSource = BuiltinFontSource
	return nil
}

func (r *Renderer) prepareBackground() *image.RGBA {
	bounds := image.Rect(0, 0, r.cfg.Width, r.cfg.Height)
	frame := image.NewRGBA(bounds)
	draw.Draw(frame, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)

	if r.cfg.BackgroundImage != "" {
		src, err := loadImage(r.cfg.BackgroundImage)
		if err != nil {
			logging.WarnWithContext(r.logger, "background image unavailable; using black", "background_fallback",
				logging.String("path", r.cfg.BackgroundImage),
				logging.Error(services.Wrap(services.ErrAsset, "slide", "load background", r.cfg.BackgroundImage, err)),
				logging.String(logging.FieldImpact, "slides render on a black background"),
				logging.String(logging.FieldErrorHint, "check render.background_image"),
			)
		} else {
			draw.CatmullRom.Scale(frame, bounds, src, coverRect(src.Bounds(), r.cfg.Width, r.cfg.Height), draw.Src, nil)
		}
	}

	alpha := overlayAlpha(r.cfg.BackgroundOpacity)
	if alpha > 0 {
		draw.Draw(frame, bounds, image.NewUniform(color.NRGBA{A: alpha}), image.Point{}, draw.Over)
	}
	return frame
}

// overlayAlpha converts background visibility into the black overlay alpha.
func overlayAlpha(visibility float64) uint8 {
	visibility = math.Max(0, math.Min(1, visibility))
	return uint8(math.Round(255 * (1 - visibility)))
}

// coverRect returns the centered region of src whose aspect ratio matches
// width x height, so scaling it fills the frame with no letterboxing.
func coverRect(src image.Rectangle, width, height int) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	scale := math.Max(float64(width)/sw, float64(height)/sh)
	cw := math.Min(sw, float64(width)/scale)
	ch := math.Min(sh, float64(height)/scale)
	x0 := src.Min.X + int(math.Round((sw-cw)/2))
	y0 := src.Min.Y + int(math.Round((sh-ch)/2))
	return image.Rect(x0, y0, x0+int(math.Round(cw)), y0+int(math.Round(ch)))
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Margin returns the horizontal margin, 100px at 1920 wide scaled to the frame.
func (r *Renderer) Margin() float64 {
	return referenceMargin * float64(r.cfg.Width) / referenceWidth
}

// Layout wraps both texts and computes vertical placement.
func (r *Renderer) Layout(text1, text2 string) (Layout, error) {
	face, err := newFace(r.font, r.cfg.FontSize)
	if err != nil {
		return Layout{}, services.Wrap(services.ErrAsset, "slide", "font face", "", err)
	}
	defer face.Close()
	return r.layout(face, text1, text2), nil
}

func (r *Renderer) layout(face font.Face, text1, text2 string) Layout {
	measurer := faceMeasurer{face: face}
	maxWidth := float64(r.cfg.Width) - 2*r.Margin()
	l := Layout{
		Lines1:     textlayout.Wrap(text1, measurer, maxWidth),
		Lines2:     textlayout.Wrap(text2, measurer, maxWidth),
		LineHeight: float64(r.cfg.FontSize) * lineSpacing,
		MaxWidth:   maxWidth,
	}
	l.StartY = (float64(r.cfg.Height) - l.BlockHeight()) / 2
	return l
}

// Render produces the slide frame for one row.
func (r *Renderer) Render(text1, text2 string) (*image.RGBA, error) {
	face, err := newFace(r.font, r.cfg.FontSize)
	if err != nil {
		return nil, services.Wrap(services.ErrAsset, "slide", "font face", "", err)
	}
	defer face.Close()

	frame := image.NewRGBA(r.background.Bounds())
	copy(frame.Pix, r.background.Pix)

	l := r.layout(face, text1, text2)
	drawer := &font.Drawer{
		Dst:  frame,
		Src:  image.NewUniform(r.cfg.TextColor),
		Face: face,
	}
	ascent := fixedToFloat(face.Metrics().Ascent)
	y := l.StartY
	drawLine := func(line string) {
		width := fixedToFloat(drawer.MeasureString(line))
		x := (float64(r.cfg.Width) - width) / 2
		drawer.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(y + ascent)}
		drawer.DrawString(line)
		y += l.LineHeight
	}
	for _, line := range l.Lines1 {
		drawLine(line)
	}
	y += l.LineHeight
	for _, line := range l.Lines2 {
		drawLine(line)
	}
	return frame, nil
}

// RenderFile renders a slide and writes it as PNG at path.
func (r *Renderer) RenderFile(text1, text2, path string) error {
	frame, err := r.Render(text1, text2)
	if err != nil {
		return err
	}
	return WritePNG(path, frame)
}

// WritePNG encodes img to path atomically.
func WritePNG(path string, img image.Image) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return png.Encode(w, img)
	})
	if err != nil {
		return services.Wrap(services.ErrEncoding, "slide", "write png", path, err)
	}
	return nil
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
