package io

import (
	stdio "io"
)

// Context provides access to I/O channels and masking.
//
// Data is for pipeable output (JSON, YAML, host lists) and is written
// verbatim. UI is for human messages (warnings, errors, prompts) and is masked.
type Context interface {
	// Write writes content to the given stream. Only UI content is masked.
	Write(stream Stream, content string) error

	// Data returns the stdout writer.
	Data() stdio.Writer
	// UI returns the masked stderr writer.
	UI() stdio.Writer
	// Input returns stdin.
	Input() stdio.Reader

	// Masker returns the secret masker of the UI stream.
	Masker() Masker
}

// Masker replaces registered secrets in UI output.
type Masker interface {
	// RegisterSecret registers a secret together with its common encodings.
	RegisterSecret(secret string)
}

// Stream identifies an output stream.
type Stream int

const (
	DataStream Stream = iota // stdout - for pipeable data (JSON, YAML, results)
	UIStream                 // stderr - for human messages (status, errors, prompts)
)

// String returns the string representation of the stream.
func (s Stream) String() string {
	switch s {
	case DataStream:
		return "data"
	case UIStream:
		return "ui"
	default:
		return "unknown"
	}
}
