package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidInput is returned when text input does not match the grid grammar.
var ErrInvalidInput = errors.New("invalid input")

// ErrPipelineClosed is returned when events are emitted into a closed playback pipeline.
var ErrPipelineClosed = errors.New("playback pipeline closed")
