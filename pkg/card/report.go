package card

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ProblemKind classifies a recoverable problem found while editing.
type ProblemKind string

const (
	// ProblemMalformedText is invalid JSON in an object card's text view.
	ProblemMalformedText ProblemKind = "malformed_text"
	// ProblemStructure is an empty key, an orphaned node, or an operation on the wrong kind of card.
	ProblemStructure ProblemKind = "structure"
	// ProblemMissingCollaborator is a dialog or store the editor needed but was not given.
	ProblemMissingCollaborator ProblemKind = "missing_collaborator"
)

// Problem is reported to the user instead of failing the editor.
type Problem struct {
	Kind    ProblemKind
	Node    NodeID
	Message string
	Err     error
}

func (p Problem) String() string {
	if p.Err != nil {
		return fmt.Sprintf("%s: %v", p.Message, p.Err)
	}
	return p.Message
}

// Reporter receives problems found by the tree.
type Reporter interface {
	Report(p Problem)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(p Problem)

// Report calls f(p).
func (f ReporterFunc) Report(p Problem) { f(p) }

// LogReporter writes problems to a logrus entry. Structural problems are
// warnings, everything else is an error.
type LogReporter struct {
	logger *logrus.Entry
}

// NewLogReporter creates a reporter on top of logger.
func NewLogReporter(logger *logrus.Entry) *LogReporter {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(p Problem) {
	entry := r.logger.WithFields(logrus.Fields{
		"kind": string(p.Kind),
		"node": uint64(p.Node),
	})
	if p.Err != nil {
		entry = entry.WithError(p.Err)
	}
	if p.Kind == ProblemStructure {
		entry.Warn(p.Message)
		return
	}
	entry.Error(p.Message)
}

// Recorder keeps every reported problem in memory.
type Recorder struct {
	mu       sync.Mutex
	problems []Problem
}

func (r *Recorder) Report(p Problem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.problems = append(r.problems, p)
}

// Problems returns a copy of the recorded problems.
func (r *Recorder) Problems() []Problem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Problem, len(r.problems))
	copy(out, r.problems)
	return out
}

// Count returns how many problems of the given kind were recorded.
func (r *Recorder) Count(kind ProblemKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.problems {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded problems.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.problems = nil
}
