// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package extract reads record descriptions into normalized schema units.
//
// Four inputs are understood: annotated Go source, record documents in YAML or
// JSON, JSON Schema documents and HCL files.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/dacolabs/buildergen/internal/schema"
)

// Format names an input format.
type Format string

// Supported input formats.
const (
	FormatGo         Format = "go"
	FormatDocument   Format = "document"
	FormatJSONSchema Format = "jsonschema"
	FormatHCL        Format = "hcl"
)

// Formats lists every supported format.
var Formats = []Format{FormatGo, FormatDocument, FormatJSONSchema, FormatHCL}

var (
	// ErrUnknownFormat is returned when the format cannot be inferred from the file name.
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrNoRecords is returned when an input yields no record to generate.
	ErrNoRecords = errors.New("no records found")
)

// Options controls extraction.
type Options struct {
	Format  Format   // empty detects from the file name
	Types   []string // records to keep, empty keeps every candidate
	All     bool     // Go source: every struct is a candidate, not only annotated ones
	Package string   // package of the output file for inputs that do not name one
}

// DetectFormat infers the format of path from its name.
func DetectFormat(path string) (Format, error) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(base, ".go"):
		return FormatGo, nil
	case strings.HasSuffix(base, ".schema.json"), strings.HasSuffix(base, ".schema.yaml"), strings.HasSuffix(base, ".schema.yml"):
		return FormatJSONSchema, nil
	case strings.HasSuffix(base, ".yaml"), strings.HasSuffix(base, ".yml"), strings.HasSuffix(base, ".json"):
		return FormatDocument, nil
	case strings.HasSuffix(base, ".hcl"):
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %s (use --from with one of %s)", ErrUnknownFormat, path, formatList())
	}
}

// ParseFormat validates a format name given by the user.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if slices.Contains(Formats, f) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownFormat, s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Load reads the record description at path.
func Load(path string, opts Options) (*schema.Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, src, opts)
}

// Parse extracts and normalizes the records described by src. path names the
// source in diagnostics and selects the format when opts.Format is empty.
func Parse(path string, src []byte, opts Options) (*schema.Unit, error) {
	format := opts.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	var (
		unit *schema.Unit
		err  error
	)
	switch format {
	case FormatGo:
		unit, err = parseGo(path, src, opts)
	case FormatDocument:
		parser := YAML
		if strings.HasSuffix(strings.ToLower(path), ".json") {
			parser = JSON
		}
		unit, err = parser.Parse(path, src)
	case FormatJSONSchema:
		unit, err = parseJSONSchema(path, src)
	case FormatHCL:
		unit, err = parseHCL(path, src)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	unit.Source = path
	if opts.Package != "" {
		unit.Package = opts.Package
	}
	if unit.Package == "" {
		unit.Package = packageFromDir(path)
	}
	if format != FormatGo {
		if unit.Records, err = selectRecords(unit.Records, opts.Types); err != nil {
			return nil, err
		}
	}
	if len(unit.Records) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, path)
	}

	if err := unit.Normalize(); err != nil {
		return nil, err
	}
	return unit, nil
}

func selectRecords(records []*schema.Record, names []string) ([]*schema.Record, error) {
	if len(names) == 0 {
		return records, nil
	}
	byName := make(map[string]*schema.Record, len(records))
	for _, r := range records {
		byName[r.Name] = r
	}
	selected := make([]*schema.Record, 0, len(names))
	for _, name := range names {
		r, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("record %q not found", name)
		}
		selected = append(selected, r)
	}
	return selected, nil
}

// packageFromDir derives a package name from the directory holding path.
func packageFromDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "records"
	}
	var sb strings.Builder
	for _, r := range strings.ToLower(filepath.Base(filepath.Dir(abs))) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return "records"
	}
	return name
}

// splitImport accepts "path" or "name path".
func splitImport(s string) schema.Import {
	fields := strings.Fields(s)
	if len(fields) == 2 {
		return schema.Import{Name: fields[0], Path: strings.Trim(fields[1], `"`)}
	}
	return schema.Import{Path: strings.Trim(strings.TrimSpace(s), `"`)}
}
