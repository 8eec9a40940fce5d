package ir

import (
	"fmt"
	"sort"

	language "github.com/hanpama/supergraph/internal/language"
)

// ViolationKind identifies the rule a Violation reports.
type ViolationKind string

// Violation is one structured error or warning.
type Violation struct {
	Kind        ViolationKind `json:"kind"`
	Subgraph    string        `json:"subgraph,omitempty"`
	Coordinates []string      `json:"coordinates,omitempty"`
	Message     string        `json:"message"`
	File        string        `json:"file,omitempty"`
	Line        int           `json:"positionStart,omitempty"`
	Column      int           `json:"positionEnd,omitempty"`
}

func (v *Violation) String() string {
	line := v.Message
	if v.Subgraph != "" {
		line = "[" + v.Subgraph + "] " + line
	}
	if v.File != "" {
		line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
	}
	return line
}

// In attributes the violation to a subgraph.
func (v *Violation) In(subgraph string) *Violation {
	v.Subgraph = subgraph
	return v
}

// At records the source position, if known.
func (v *Violation) At(pos *language.Position) *Violation {
	if pos == nil {
		return v
	}
	if pos.Src != nil {
		v.File = pos.Src.Name
	}
	v.Line = pos.Line
	v.Column = pos.Column
	return v
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		msg += "- " + v.String() + "\n"
	}
	return msg
}

// SortViolations orders violations by subgraph, line, kind and message
// so that output does not depend on map iteration.
func SortViolations(vs []*Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Subgraph != b.Subgraph {
			return a.Subgraph < b.Subgraph
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}

// Core primitive used by all template helpers.
func newViolation(kind ViolationKind, message string, coords ...string) *Violation {
	return &Violation{Kind: kind, Message: message, Coordinates: coords}
}

func (v *Violation) Error() string { return v.String() }
