// Package diagnostics collects the non-fatal problems found while
// converting a bookmark collection and reports them on a side stream.
package diagnostics

import (
	"fmt"
	"io"
	"log"
)

// Kind classifies a warning
type Kind int

const (
	// KindStructural: a node does not fit any recognized shape and was skipped
	KindStructural Kind = iota + 1
	// KindMissingField: a field was absent and a default was substituted
	KindMissingField
	// KindWrite: a file or directory could not be created
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindStructural:
		return "structural"
	case KindMissingField:
		return "missing field"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Warning is a single recorded problem
type Warning struct {
	Kind    Kind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Sink records warnings and echoes them to its logger.
// It is not safe for concurrent use; conversion is single threaded.
type Sink struct {
	logger    *log.Logger
	verbose   bool
	warnings  []Warning
	beforeLog func()
}

// New creates a sink that logs to w. A nil writer discards the output but
// still records warnings.
func New(w io.Writer) *Sink {
	if w == nil {
		w = io.Discard
	}
	return &Sink{logger: log.New(w, "", 0)}
}

// SetVerbose enables the Infof progress lines
func (s *Sink) SetVerbose(v bool) *Sink {
	s.verbose = v
	return s
}

// BeforeLog sets a function called before every line the sink logs.
// A progress bar sharing the stream uses it to end its line. nil clears it.
func (s *Sink) BeforeLog(fn func()) *Sink {
	s.beforeLog = fn
	return s
}

// Structural records a node that was skipped
func (s *Sink) Structural(format string, args ...any) {
	s.add(KindStructural, fmt.Sprintf(format, args...))
}

// MissingField records a substituted default
func (s *Sink) MissingField(format string, args ...any) {
	s.add(KindMissingField, fmt.Sprintf(format, args...))
}

// WriteFailed records a failed filesystem operation
func (s *Sink) WriteFailed(err error) {
	s.add(KindWrite, err.Error())
}

// Infof logs a progress line in verbose mode only
func (s *Sink) Infof(format string, args ...any) {
	if s.verbose {
		s.print(fmt.Sprintf(format, args...))
	}
}

// Warnings returns the recorded warnings in order
func (s *Sink) Warnings() []Warning {
	return s.warnings
}

// Count returns the number of warnings of the given kind
func (s *Sink) Count(kind Kind) int {
	n := 0
	for _, w := range s.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

func (s *Sink) add(kind Kind, msg string) {
	w := Warning{Kind: kind, Message: msg}
	s.warnings = append(s.warnings, w)
	s.print("Warning: " + w.String())
}

func (s *Sink) print(line string) {
	if s.beforeLog != nil {
		s.beforeLog()
	}
	s.logger.Print(line)
}
