// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generate provides the builder generators and the file assembly they share.
package generate

import (
	"fmt"
	"sort"

	"github.com/dacolabs/buildergen/internal/schema"
)

// Generator defines the interface all builder generators must implement.
type Generator interface {
	// Name returns the generator's identifier (e.g., "typed", "checked")
	Name() string

	// Generate renders the Go source for every record of a normalized unit.
	// The output is not yet formatted; see Format.
	Generate(unit *schema.Unit) ([]byte, error)
}

// Register maps generator names to generators.
type Register map[string]Generator

// Add registers g under its own name.
func (r Register) Add(g Generator) {
	r[g.Name()] = g
}

// Get retrieves a generator by name.
func (r Register) Get(name string) (Generator, error) {
	g, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return g, nil
}

// Available returns all registered generator names, sorted.
func (r Register) Available() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
