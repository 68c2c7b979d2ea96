package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// newJSONHandler writes the records bilingo logs tail and filter: "ts", "level"
// and "msg" keys, run_id and row at the top level, durations as strings.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) (slog.Handler, error) {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch attr.Key {
				case slog.TimeKey:
					attr.Key = "ts"
					if attr.Value.Kind() == slog.KindTime {
						attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(fileTimeLayout))
					}
					return attr
				case slog.LevelKey:
					attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
					return attr
				case slog.SourceKey:
					if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
						attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
					}
					return attr
				}
			}
			switch attr.Value.Kind() {
			case slog.KindDuration:
				attr.Value = slog.StringValue(roundDuration(attr.Value.Duration()).String())
			case slog.KindFloat64:
				attr.Value = slog.Float64Value(roundFloat(attr.Value.Float64()))
			}
			return attr
		},
	}

	return slog.NewJSONHandler(w, &opts), nil
}
