// Package term prints warnings and errors to the error channel with optional
// color. NO_COLOR and TERM=dumb disable styling; neither ever changes program
// logic, only presentation.
package term

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type Printer struct {
	w       io.Writer
	warnFn  func(format string, a ...interface{}) string
	errorFn func(format string, a ...interface{}) string
}

// NewPrinter writes styled lines to w (stderr when nil).
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	warn := color.New(color.FgYellow)
	errc := color.New(color.FgRed)
	if colorDisabled() {
		warn.DisableColor()
		errc.DisableColor()
	}
	return &Printer{
		w:       w,
		warnFn:  warn.Sprintf,
		errorFn: errc.Sprintf,
	}
}

// colorDisabled honors the no-color toggle and the terminal-type signal. The
// color package already handles NO_COLOR and non-tty detection for its
// default output; since we write to an injected writer, check both here.
func colorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}

// Warnf prints a non-fatal warning line.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.w, p.warnFn("WARNING: "+format, args...))
}

// Errorf prints a fatal error line. The caller decides the exit code.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.w, p.errorFn("Error: "+format, args...))
}
