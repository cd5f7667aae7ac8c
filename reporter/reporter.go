// Package reporter defines the error and diagnostic plumbing shared by the
// grammar bundle loader, the replacement computer, and the HDD engine: a
// position type, a taxonomy of typed errors, and a Handler that collects
// them without aborting a reduction session prematurely.
package reporter

import "sync"

// Position locates a point in a grammar-bundle source file, used to
// annotate diagnostics raised while loading a bundle or computing
// replacements for a rule defined at that point.
//
// The zero Position means "no particular location".
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return "<unknown>"
	}
	if p.Line == 0 {
		return p.File
	}
	if p.Column == 0 {
		return p.File + ":" + itoa(p.Line)
	}
	return p.File + ":" + itoa(p.Line) + ":" + itoa(p.Column)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ErrorReporter is responsible for reporting the given error. If the
// reporter returns a non-nil error, loading/reduction aborts with that
// error. If it returns nil, the session continues, allowing the bundle
// loader or HDD engine to surface as many diagnostics as it can find.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning: a
// diagnostic that does not, by itself, abort the session (for example, a
// ParsedWithErrors result for one tree builder invocation).
type WarningReporter func(ErrorWithPos)

// Reporter is the pluggable sink for diagnostics raised during a reduction
// session.
type Reporter interface {
	Error(ErrorWithPos) error
	Warning(ErrorWithPos)
}

// NewReporter builds a [Reporter] from a pair of callbacks. Either may be
// nil; a nil ErrorReporter causes every error to be returned as-is, and a
// nil WarningReporter discards warnings.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// Handler accumulates diagnostics for one reduction session, latching onto
// the first fatal error (if the underlying [Reporter] chooses to make an
// error fatal by returning it).
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported bool
	err          error
}

// NewHandler wraps rep (or, if rep is nil, a reporter that returns every
// error as-is and discards warnings) in a Handler.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf reports a formatted error at pos.
func (h *Handler) HandleErrorf(pos Position, format string, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	h.errsReported = true
	err := h.reporter.Error(Errorf(pos, format, args...))
	h.err = err
	return err
}

// HandleError reports err, attaching position information if err already
// carries an [ErrorWithPos].
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported = true
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning reports a non-fatal diagnostic at pos.
func (h *Handler) HandleWarning(pos Position, err error) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(errorWithPosition{pos: pos, underlying: err})
}

// Error returns the fatal error (if any) latched by this handler.
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported && h.err == nil {
		return ErrInvalidBundle
	}
	return h.err
}

// ReporterError returns exactly what the underlying [Reporter] returned for
// the first handled error, which may be nil even if errsReported is true.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}
