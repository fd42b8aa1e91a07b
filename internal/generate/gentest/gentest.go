// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package gentest type-checks generated code in-process for generator tests.
package gentest

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/dacolabs/buildergen/internal/typestate"
)

// PackagePath is the import path generated test packages are checked under.
const PackagePath = "example.com/generated"

var (
	shapeOnce sync.Once
	shapeFset = token.NewFileSet()
	shapePkg  *types.Package
	shapeErr  error
	stdlib    = importer.ForCompiler(shapeFset, "source", nil)
)

func shapeDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "shape")
}

func loadShape() (*types.Package, error) {
	shapeOnce.Do(func() {
		paths, err := filepath.Glob(filepath.Join(shapeDir(), "*.go"))
		if err != nil {
			shapeErr = err
			return
		}
		var files []*ast.File
		for _, p := range paths {
			if strings.HasSuffix(p, "_test.go") {
				continue
			}
			f, err := parser.ParseFile(shapeFset, p, nil, 0)
			if err != nil {
				shapeErr = err
				return
			}
			files = append(files, f)
		}
		conf := types.Config{Importer: stdlib}
		shapePkg, shapeErr = conf.Check(typestate.ShapeImport, shapeFset, files, nil)
	})
	return shapePkg, shapeErr
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

// Check type-checks files, keyed by file name, as one package. It returns
// the first type error, or nil when the package compiles.
func Check(files map[string]string) error {
	errs := CheckAll(files)
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}

// CheckAll type-checks files and returns every type error found.
func CheckAll(files map[string]string) []error {
	shape, err := loadShape()
	if err != nil {
		return []error{fmt.Errorf("loading shape package: %w", err)}
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(files))
	for _, name := range names {
		f, err := parser.ParseFile(fset, name, files[name], parser.ParseComments)
		if err != nil {
			return []error{err}
		}
		parsed = append(parsed, f)
	}

	var errs []error
	conf := types.Config{
		Importer: importerFunc(func(path string) (*types.Package, error) {
			if path == typestate.ShapeImport {
				return shape, nil
			}
			return stdlib.Import(path)
		}),
		Error: func(err error) { errs = append(errs, err) },
	}
	_, _ = conf.Check(PackagePath, fset, parsed, nil)
	return errs
}

// Normalized returns a unit holding records after normalizing it, for tests
// that build schemas by hand.
func Normalized(pkg string, records ...*schema.Record) (*schema.Unit, error) {
	unit := &schema.Unit{Package: pkg, Records: records, EmitRecords: true}
	if err := unit.Normalize(); err != nil {
		return nil, err
	}
	return unit, nil
}
