package prerender

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing input (source markdown or snapshot artifact).
	// It is never fatal: callers log it and move on.
	ErrNotFound = errors.New("not found")

	ErrBadRoute = errors.New("bad route")
)

type Stage int

const (
	StageGenerate Stage = 1 << iota
	StageEnumerate
	StageSnapshot
	StageInject
)

func (s Stage) String() string {
	switch s {
	case StageGenerate:
		return "generate"
	case StageEnumerate:
		return "enumerate"
	case StageSnapshot:
		return "snapshot"
	case StageInject:
		return "inject"
	}

	return "BAD_STAGE"
}

// StageError is returned by pipeline steps when an error must escape
// the per-item loop. Key is usually a slug, route or filename.
type StageError struct {
	Err   error
	Key   string
	Msg   string
	Stage Stage
}

func (e StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s %s] %s", e.Stage, e.Key, e.Msg)
	}

	return fmt.Errorf("[%s %s] %s: %w", e.Stage, e.Key, e.Msg, e.Err).Error()
}

func (e StageError) Unwrap() error {
	return e.Err
}

type writeError struct {
	err    error
	target string
}

func (w writeError) Error() string {
	return fmt.Errorf("WriteError(%s): %w", w.target, w.err).Error()
}

func (w writeError) Unwrap() error {
	return w.err
}
