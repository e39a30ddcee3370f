package io

import (
	stdio "io"
	"os"
)

type context struct {
	input  stdio.Reader
	data   stdio.Writer
	ui     stdio.Writer
	masker *masker
}

// ContextOption configures a Context.
type ContextOption func(*contextConfig)

type contextConfig struct {
	input stdio.Reader
	data  stdio.Writer
	ui    stdio.Writer
}

// WithStreams overrides stdin, stdout and stderr.
func WithStreams(input stdio.Reader, data, ui stdio.Writer) ContextOption {
	return func(c *contextConfig) {
		c.input = input
		c.data = data
		c.ui = ui
	}
}

// NewContext creates a new I/O context bound to the process streams unless
// overridden with WithStreams.
func NewContext(opts ...ContextOption) Context {
	cfg := &contextConfig{
		input: os.Stdin,
		data:  os.Stdout,
		ui:    os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	m := newMasker()
	return &context{
		input:  cfg.input,
		data:   cfg.data,
		ui:     &maskedWriter{masker: m, w: cfg.ui},
		masker: m,
	}
}

func (c *context) Write(stream Stream, content string) error {
	var w stdio.Writer
	switch stream {
	case DataStream:
		w = c.data
	default:
		w = c.ui
	}
	_, err := stdio.WriteString(w, content)
	return err
}

func (c *context) Data() stdio.Writer {
	return c.data
}

func (c *context) UI() stdio.Writer {
	return c.ui
}

func (c *context) Input() stdio.Reader {
	return c.input
}

func (c *context) Masker() Masker {
	return c.masker
}

// maskedWriter masks every chunk before forwarding it.
type maskedWriter struct {
	masker *masker
	w      stdio.Writer
}

func (mw *maskedWriter) Write(p []byte) (int, error) {
	masked := mw.masker.mask(string(p))
	if _, err := stdio.WriteString(mw.w, masked); err != nil {
		return 0, err
	}
	// Report the original length so callers do not treat masking as a short write.
	return len(p), nil
}
