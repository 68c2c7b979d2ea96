package slide

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// BuiltinFontSource names the embedded fallback font.
const BuiltinFontSource = "builtin:Go-Regular"

var fontExtensions = []string{"", ".ttf", ".otf"}

func systemFontDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".fonts"), filepath.Join(home, ".local", "share", "fonts"))
		if runtime.GOOS == "darwin" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
	}
	switch runtime.GOOS {
	case "darwin":
		dirs = append(dirs, "/Library/Fonts", "/System/Library/Fonts", "/System/Library/Fonts/Supplemental")
	case "windows":
		if windir := os.Getenv("WINDIR"); windir != "" {
			dirs = append(dirs, filepath.Join(windir, "Fonts"))
		}
	default:
		dirs = append(dirs, "/usr/local/share/fonts", "/usr/share/fonts")
	}
	return dirs
}

// findFont resolves name to a font file. Names containing a path separator
// are treated as paths; otherwise each directory is searched recursively for
// name, name.ttf and name.otf, case-insensitively.
func findFont(name string, dirs []string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		for _, ext := range fontExtensions {
			if info, err := os.Stat(name + ext); err == nil && info.Mode().IsRegular() {
				return name + ext, true
			}
		}
		return "", false
	}

	wanted := make(map[string]struct{}, len(fontExtensions))
	for _, ext := range fontExtensions {
		wanted[strings.ToLower(name+ext)] = struct{}{}
	}
	for _, dir := range dirs {
		var found string
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := wanted[strings.ToLower(d.Name())]; ok {
				found = path
				return fs.SkipAll
			}
			return nil
		})
		if found != "" {
			return found, true
		}
	}
	return "", false
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

func builtinFont() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// faceMeasurer adapts a font face to textlayout.Measurer.
type faceMeasurer struct {
	face font.Face
}

func (m faceMeasurer) Width(s string) float64 {
	return fixedToFloat(font.MeasureString(m.face, s))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
