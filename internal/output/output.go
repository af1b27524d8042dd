// Package output provides context-aware primary output for worktree.
//
// Stdout carries data a caller may capture: the path of the worktree being
// entered, the names printed by list and the location written by init.
// Diagnostics go to stderr through the log package.
package output

import (
	"context"
	"fmt"
	"io"
	"os"
)

type ctxKey struct{}

// Printer writes primary output to stdout.
type Printer struct {
	w io.Writer
}

// New creates a new Printer writing to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// WithPrinter attaches a Printer writing to w to the context.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, New(w))
}

// FromContext retrieves the Printer from context.
// Falls back to os.Stdout if none is attached.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout)
}

// Path prints a filesystem path on a line of its own so wrappers can
// capture it with a plain read.
func (p *Printer) Path(path string) {
	fmt.Fprintln(p.w, path)
}

// Names writes each entry on its own line, in order.
func (p *Printer) Names(names []string) {
	for _, n := range names {
		fmt.Fprintln(p.w, n)
	}
}

// Printf writes formatted output.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
