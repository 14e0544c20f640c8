package myg

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ParseError is a single load-time diagnostic.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Diagnostics collects every ParseError found while loading a program.
// A program is only runnable when its diagnostics are empty.
type Diagnostics []ParseError

// Error joins all diagnostics, one per line.
func (d Diagnostics) Error() string {
	msgs := make([]string, len(d))
	for i, e := range d {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns d as an error, or nil when there is nothing to report.
func (d Diagnostics) Err() error {
	if len(d) == 0 {
		return nil
	}
	return d
}

func (d Diagnostics) sorted() Diagnostics {
	sort.SliceStable(d, func(i, j int) bool {
		return d[i].Line < d[j].Line
	})
	return d
}

// EvalErrorKind identifies a non-fatal evaluation problem.
type EvalErrorKind int

const (
	UnknownIdentifier EvalErrorKind = iota
)

// EvalError is reported when an expression cannot be evaluated exactly.
// The evaluator substitutes 0 and keeps going.
type EvalError struct {
	Kind EvalErrorKind
	Name string
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case UnknownIdentifier:
		return fmt.Sprintf("unknown identifier %q", e.Name)
	default:
		return fmt.Sprintf("evaluation error near %q", e.Name)
	}
}

// Warnings is the error returned by Eval when one or more EvalErrors were
// recovered from. The accompanying value is still usable.
type Warnings []*EvalError

func (w Warnings) Error() string {
	msgs := make([]string, len(w))
	for i, e := range w {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Suggest returns the candidate closest to word, or "" if none is close.
func Suggest(word string, candidates []string) string {
	ranks := fuzzy.RankFindFold(word, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// didYouMean formats a Suggest hint for a diagnostic message.
func didYouMean(word string, candidates []string) string {
	if s := Suggest(word, candidates); s != "" && s != word {
		return fmt.Sprintf(" (did you mean %q?)", s)
	}
	return ""
}
