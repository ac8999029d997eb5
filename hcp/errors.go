package hcp

import "github.com/pkg/errors"

// ErrNotInitialized is returned when Plan is called before Initialize.
var ErrNotInitialized = errors.New("hcp: Initialize must be called before Plan")

// ErrCancelled is returned when roadmap sampling is aborted via the
// planner's cancellation signal.
var ErrCancelled = errors.New("hcp: roadmap sampling cancelled")
