package language

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"

	"bilingo/internal/logging"
)

const (
	// Auto is the sentinel name that asks the registry to detect the language
	// from the text being narrated.
	Auto = "Auto"
	// FallbackCode is used when a name is unknown or detection fails.
	FallbackCode = "en"
)

// Entry maps a display name to the code passed to speech providers.
type Entry struct {
	Name string
	Code string
}

var defaultEntries = []Entry{
	{"English", "en"},
	{"French", "fr"},
	{"Spanish", "es"},
	{"German", "de"},
	{"Italian", "it"},
	{"Portuguese", "pt"},
	{"Russian", "ru"},
	{"Japanese", "ja"},
	{"Korean", "ko"},
	{"Chinese", "zh-cn"},
}

// Registry resolves human-readable language names to provider codes. A
// registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	entries  []Entry
	byName   map[string]int
	detector Detector
	logger   *slog.Logger
	title    cases.Caser
}

// Option customizes a Registry.
type Option func(*Registry)

// WithLogger attaches a logger used for detection fallbacks.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logging.NewComponentLogger(logger, "language")
	}
}

// WithoutDefaults starts the registry empty.
func WithoutDefaults() Option {
	return func(r *Registry) {
		r.entries = nil
		r.byName = make(map[string]int)
	}
}

// NewRegistry builds a registry pre-populated with the common language set.
// A nil detector disables detection; Auto then resolves to FallbackCode.
func NewRegistry(detector Detector, opts ...Option) *Registry {
	r := &Registry{
		detector: detector,
		logger:   logging.NewNop(),
		byName:   make(map[string]int, len(defaultEntries)),
		title:    cases.Title(xlanguage.Und),
	}
	for _, e := range defaultEntries {
		r.byName[strings.ToLower(e.Name)] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register adds or replaces a language. The code must be a valid BCP 47 tag.
func (r *Registry) Register(name, code string) error {
	name = strings.TrimSpace(name)
	code = strings.ToLower(strings.TrimSpace(code))
	if name == "" {
		return fmt.Errorf("language name is required")
	}
	if strings.EqualFold(name, Auto) {
		return fmt.Errorf("%q is reserved", Auto)
	}
	if _, err := xlanguage.Parse(code); err != nil {
		return fmt.Errorf("language %q: invalid code %q: %w", name, code, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	entry := Entry{Name: r.title.String(name), Code: code}
	key := strings.ToLower(name)
	if idx, ok := r.byName[key]; ok {
		r.entries[idx] = entry
		return nil
	}
	r.byName[key] = len(r.entries)
	r.entries = append(r.entries, entry)
	return nil
}

// Code returns the code registered for name.
func (r *Registry) Code(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", false
	}
	return r.entries[idx].Code, true
}

// Names returns Auto followed by registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries)+1)
	names = append(names, Auto)
	for _, e := range r.entries {
		names = append(names, e.Name)
	}
	return names
}

// Entries returns a copy of the registered entries sorted by name.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve maps a language name to a provider code. Auto triggers detection on
// text. Unknown names and detection failures resolve to FallbackCode; Resolve
// never fails.
func (r *Registry) Resolve(name, text string) string {
	if strings.EqualFold(strings.TrimSpace(name), Auto) {
		return r.detect(text)
	}
	if code, ok := r.Code(name); ok {
		return code
	}
	if code := ToISO2(name); code != "" && r.knownCode(code) {
		return r.canonical(code)
	}
	r.logger.Debug("unknown language name; using fallback",
		logging.String("language", name),
		logging.String("code", FallbackCode),
	)
	return FallbackCode
}

func (r *Registry) detect(text string) string {
	if r.detector == nil {
		return FallbackCode
	}
	code, err := r.detector.Detect(text)
	if err != nil {
		logging.WarnWithContext(r.logger, "language detection failed; using fallback", "language_detection_fallback",
			logging.Error(err),
			logging.String("code", FallbackCode),
			logging.String(logging.FieldImpact, "narration uses the fallback language voice"),
			logging.String(logging.FieldErrorHint, "set an explicit language instead of Auto"),
		)
		return FallbackCode
	}
	code = strings.ToLower(strings.TrimSpace(code))
	if canonical := r.canonical(code); canonical != "" {
		return canonical
	}
	return code
}

func (r *Registry) knownCode(code string) bool {
	return r.canonical(code) != ""
}

// canonical maps a detected or converted code to the registered code that
// shares its base language (so "zh" resolves to "zh-cn").
func (r *Registry) canonical(code string) string {
	base := baseOf(code)
	if base == "" {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.Code == code {
			return e.Code
		}
	}
	for _, e := range r.entries {
		if baseOf(e.Code) == base {
			return e.Code
		}
	}
	return ""
}

func baseOf(code string) string {
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return base.String()
}
