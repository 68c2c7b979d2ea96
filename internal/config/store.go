package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

// Save writes the configuration as TOML. The write holds an exclusive lock on
// a sibling .lock file and replaces the target atomically.
func (c *Config) Save(path string) error {
	path, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire config lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("config %s is being written by another process", path)
	}
	defer func() { _ = lock.Unlock() }()

	persisted := *c
	if persisted.credentialFromEnv {
		persisted.TTS.APIKey = ""
	}
	data, err := toml.Marshal(&persisted)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Set assigns a dotted key such as "tts.speed" from its string form, then
// re-normalizes and validates the result.
func (c *Config) Set(key, value string) error {
	section, field, ok := strings.Cut(strings.TrimSpace(key), ".")
	if !ok || section == "" || field == "" {
		return fmt.Errorf("key %q must look like section.field", key)
	}

	sectionValue, ok := fieldByTag(reflect.ValueOf(c).Elem(), section)
	if !ok || sectionValue.Kind() != reflect.Struct {
		return fmt.Errorf("unknown section %q", section)
	}
	target, ok := fieldByTag(sectionValue, field)
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}
	if err := assign(target, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if section == "tts" && field == "api_key" {
		c.credentialFromEnv = false
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// Keys lists every settable dotted key in declaration order.
func Keys() []string {
	var keys []string
	root := reflect.TypeOf(Config{})
	for i := 0; i < root.NumField(); i++ {
		section := root.Field(i)
		if !section.IsExported() || section.Type.Kind() != reflect.Struct {
			continue
		}
		for j := 0; j < section.Type.NumField(); j++ {
			keys = append(keys, tagName(section)+"."+tagName(section.Type.Field(j)))
		}
	}
	return keys
}

func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() && tagName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(f reflect.StructField) string {
	tag, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	return tag
}

func assign(target reflect.Value, raw string) error {
	raw = strings.TrimSpace(raw)
	switch target.Kind() {
	case reflect.String:
		target.SetString(raw)
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("expected integer, got %q", raw)
		}
		target.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("expected number, got %q", raw)
		}
		target.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", raw)
		}
		target.SetBool(b)
	case reflect.Slice:
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		target.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", target.Kind())
	}
	return nil
}
