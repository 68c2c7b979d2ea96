// Package notifications delivers run events to an ntfy topic.
//
// A generation can take minutes for a long list, so the CLI posts a notice
// when a run completes or fails. NewService returns a no-op implementation
// when no topic is configured; callers never check whether notifications are
// enabled.
package notifications
