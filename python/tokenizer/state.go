package tokenizer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dhamidi/pyfront/python/token"
)

// ErrInvalidState is returned when a saved tokenizer state cannot be
// restored.
var ErrInvalidState = errors.New("invalid tokenizer state")

// State is everything a tokenizer carries from one line to the next. It
// is a plain value so editors can checkpoint it per line and resume
// tokenizing in the middle of a document.
type State struct {
	Version   token.LanguageVersion `json:"version"`
	Line      int                   `json:"line"`
	LineStart int                   `json:"lineStart"`
	Nesting   []token.Kind          `json:"nesting,omitempty"`
	Joined    bool                  `json:"joined,omitempty"`
}

// Clone returns a copy of s that shares no memory with it.
func (s State) Clone() State {
	s.Nesting = slices.Clone(s.Nesting)
	return s
}

// Equal reports whether two states would tokenize the same way.
func (s State) Equal(other State) bool {
	return s.Version == other.Version &&
		s.Line == other.Line &&
		s.LineStart == other.LineStart &&
		s.Joined == other.Joined &&
		slices.Equal(s.Nesting, other.Nesting)
}

// Validate checks the invariants a tokenizer relies on.
func (s State) Validate() error {
	if !s.Version.IsValid() {
		return fmt.Errorf("%w: unknown version %v", ErrInvalidState, s.Version)
	}
	if s.Line < 1 || s.LineStart < 0 {
		return fmt.Errorf("%w: line %d at offset %d", ErrInvalidState, s.Line, s.LineStart)
	}
	for i, k := range s.Nesting {
		switch {
		case k.IsCloseGroup():
		case k.IsCloseQuote():
			if i != len(s.Nesting)-1 {
				return fmt.Errorf("%w: quote %v below the top of the nesting stack", ErrInvalidState, k)
			}
		default:
			return fmt.Errorf("%w: %v cannot be nested", ErrInvalidState, k)
		}
	}
	return nil
}
