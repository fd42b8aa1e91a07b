// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"fmt"
	"strings"
)

// Position is a location in a record description.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	switch {
	case p.File == "" && p.Line == 0:
		return "-"
	case p.Line == 0:
		return p.File
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
}

// Diagnostic reports malformed input. Generation of the affected unit is aborted.
type Diagnostic struct {
	Pos Position
	Msg string
}

func (d *Diagnostic) Error() string {
	return d.Pos.String() + ": " + d.Msg
}

// Errorf builds a Diagnostic at pos.
func Errorf(pos Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Diagnostics collects every problem found in one pass.
type Diagnostics []*Diagnostic

// Add appends a diagnostic at pos.
func (ds *Diagnostics) Add(pos Position, format string, args ...any) {
	*ds = append(*ds, Errorf(pos, format, args...))
}

func (ds Diagnostics) Error() string {
	msgs := make([]string, len(ds))
	for i, d := range ds {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Err returns ds as an error, or nil when empty.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return ds
}
