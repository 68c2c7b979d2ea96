package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput         = errors.New("input error")
	ErrAsset         = errors.New("asset error")
	ErrProvider      = errors.New("provider error")
	ErrDetection     = errors.New("detection error")
	ErrEncoding      = errors.New("encoding error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrCanceled      = errors.New("canceled")
)

// Class names the failure category a wrapped error belongs to.
type Class string

const (
	ClassInput         Class = "input"
	ClassAsset         Class = "asset"
	ClassProvider      Class = "provider"
	ClassDetection     Class = "detection"
	ClassEncoding      Class = "encoding"
	ClassConfiguration Class = "configuration"
	ClassCanceled      Class = "canceled"
	ClassUnknown       Class = "unknown"
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to its failure class.
func Classify(err error) Class {
	switch {
	case err == nil:
		return ClassUnknown
	case errors.Is(err, ErrCanceled), errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.Is(err, ErrInput):
		return ClassInput
	case errors.Is(err, ErrConfiguration):
		return ClassConfiguration
	case errors.Is(err, ErrAsset):
		return ClassAsset
	case errors.Is(err, ErrProvider):
		return ClassProvider
	case errors.Is(err, ErrDetection):
		return ClassDetection
	case errors.Is(err, ErrEncoding), errors.Is(err, ErrExternalTool):
		return ClassEncoding
	default:
		return ClassUnknown
	}
}

// Hint returns a short operator hint for the error's class.
func Hint(err error) string {
	switch Classify(err) {
	case ClassInput:
		return "check the sheet has two text columns and at least one complete row"
	case ClassAsset:
		return "check render.background_image and render.font_dirs"
	case ClassProvider:
		return "check network access to the speech provider and the tts settings"
	case ClassDetection:
		return "set explicit language names instead of Auto"
	case ClassEncoding:
		return "run bilingo status to check ffmpeg and ffprobe"
	case ClassConfiguration:
		return "run bilingo config validate"
	case ClassCanceled:
		return "run was interrupted before the video was written"
	default:
		return "check logs for details"
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
