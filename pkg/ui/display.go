package ui

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=$GOFILE -destination=mock_$GOFILE -package=$GOPACKAGE

import (
	"fmt"
	stdio "io"
	"os"
	"strings"
	"sync"

	"github.com/cloudposse/invctl/pkg/io"
	log "github.com/cloudposse/invctl/pkg/logger"
)

const (
	warningPrefix = "[WARNING]: "
	errorPrefix   = "ERROR! "
)

// Display is the diagnostics sink used by the inventory engine and renderers.
// Implementations write human messages to stderr; they never touch stdout.
type Display interface {
	// Warning reports a recoverable problem.
	Warning(text string)
	// Error reports a failure that is about to end the run.
	Error(text string)
	// Info reports progress detail; it is shown only when verbose.
	Info(text string)
}

// fallbackDisplay writes plain prefixed lines. It has no dependencies so it
// can be used before configuration and the I/O context exist.
type fallbackDisplay struct {
	mu sync.Mutex
	w  stdio.Writer
}

// NewFallbackDisplay returns a Display that writes unstyled messages to w.
// A nil writer means os.Stderr.
func NewFallbackDisplay(w stdio.Writer) Display {
	if w == nil {
		w = os.Stderr
	}
	return &fallbackDisplay{w: w}
}

func (d *fallbackDisplay) Warning(text string) {
	d.write(warningPrefix + text)
}

func (d *fallbackDisplay) Error(text string) {
	d.write(errorPrefix + text)
}

func (d *fallbackDisplay) Info(string) {}

func (d *fallbackDisplay) write(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.w, line)
}

// display is the styled Display used once CLI setup has succeeded.
// Identical warnings are reported once.
type display struct {
	mu       sync.Mutex
	ioCtx    io.Context
	styles   *StyleSet
	verbose  bool
	warnings map[string]struct{}
}

// NewDisplay returns a styled Display writing through the masked UI stream.
func NewDisplay(ioCtx io.Context, styles *StyleSet, verbose bool) Display {
	if styles == nil {
		styles = NewStyleSet(false)
	}
	return &display{
		ioCtx:    ioCtx,
		styles:   styles,
		verbose:  verbose,
		warnings: make(map[string]struct{}),
	}
}

func (d *display) Warning(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.TrimSpace(text)
	if _, seen := d.warnings[key]; seen {
		return
	}
	d.warnings[key] = struct{}{}

	log.Debug("warning reported", "message", key)
	d.writeLocked(d.styles.Warning.Render(warningPrefix + text))
}

func (d *display) Error(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeLocked(d.styles.Error.Render(errorPrefix + text))
}

func (d *display) Info(text string) {
	if !d.verbose {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.writeLocked(d.styles.Info.Render(text))
}

func (d *display) writeLocked(line string) {
	if err := d.ioCtx.Write(io.UIStream, line+"\n"); err != nil {
		log.Trace("failed to write to UI stream", "error", err)
	}
}
