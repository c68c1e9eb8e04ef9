// Package script compiles comparators and renderers from Go source at runtime.
//
// Scripts are interpreted with yaegi. A script declares its own package and
// may import the standard library and github.com/magpierre/datagrid/datagrid:
//
//	package fruit
//
//	import "strings"
//
//	func ByLength(a, b interface{}) int {
//		return len(a.(string)) - len(b.(string))
//	}
//
//	func Upper(v interface{}) interface{} {
//		return strings.ToUpper(v.(string))
//	}
package script

import (
	"bytes"
	"fmt"
	"reflect"
	"regexp"

	"github.com/rs/zerolog/log"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/magpierre/datagrid/datagrid"
)

// Symbols exposes the datagrid helpers to scripts.
var Symbols = interp.Exports{
	"github.com/magpierre/datagrid/datagrid/datagrid": {
		"Format":     reflect.ValueOf(datagrid.Format),
		"OrderingOf": reflect.ValueOf(datagrid.OrderingOf),
		"Less":       reflect.ValueOf(datagrid.Less),
		"Equal":      reflect.ValueOf(datagrid.Equal),
		"Greater":    reflect.ValueOf(datagrid.Greater),

		"Ordering": reflect.ValueOf((*datagrid.Ordering)(nil)),
		"Row":      reflect.ValueOf((*datagrid.Row)(nil)),
	},
}

var packageClause = regexp.MustCompile(`(?m)^\s*package\s+([A-Za-z_][A-Za-z0-9_]*)`)

// Program is a compiled script.
type Program struct {
	i      *interp.Interpreter
	pkg    string
	output bytes.Buffer
}

// Compile interprets src and keeps its declarations for lookup.
func Compile(src string) (*Program, error) {
	m := packageClause.FindStringSubmatch(src)
	if m == nil {
		return nil, fmt.Errorf("%w: missing package clause", datagrid.ErrScript)
	}
	if m[1] == "main" {
		return nil, fmt.Errorf("%w: scripts must not be package main", datagrid.ErrScript)
	}

	p := &Program{pkg: m[1]}
	p.i = interp.New(interp.Options{
		Stdout: &p.output,
		Stderr: &p.output,
	})

	if err := p.i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("%w: loading stdlib: %w", datagrid.ErrScript, err)
	}
	if err := p.i.Use(Symbols); err != nil {
		return nil, fmt.Errorf("%w: loading datagrid symbols: %w", datagrid.ErrScript, err)
	}

	if _, err := p.i.Eval(src); err != nil {
		log.Debug().Err(err).Str("package", p.pkg).Msg("script compilation failed")
		return nil, fmt.Errorf("%w: %w", datagrid.ErrScript, err)
	}
	log.Debug().Str("package", p.pkg).Msg("script compiled")
	return p, nil
}

// Package returns the script's package name.
func (p *Program) Package() string {
	return p.pkg
}

// Output returns what the script printed so far.
func (p *Program) Output() string {
	return p.output.String()
}

func (p *Program) lookup(name string) (any, error) {
	v, err := p.i.Eval(p.pkg + "." + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.%s: %w", datagrid.ErrScript, p.pkg, name, err)
	}
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s.%s is not a function", datagrid.ErrScript, p.pkg, name)
	}
	return v.Interface(), nil
}

// Comparator returns the named function as a comparator. It accepts a
// three-way func(a, b interface{}) int or a func(a, b interface{}) bool
// reporting whether a sorts before b.
func (p *Program) Comparator(name string) (datagrid.Comparator, error) {
	fn, err := p.lookup(name)
	if err != nil {
		return nil, err
	}

	switch f := fn.(type) {
	case func(any, any) int:
		return func(a, b any) datagrid.Ordering {
			return datagrid.OrderingOf(f(a, b))
		}, nil
	case func(any, any) bool:
		return func(a, b any) datagrid.Ordering {
			switch {
			case f(a, b):
				return datagrid.Less
			case f(b, a):
				return datagrid.Greater
			default:
				return datagrid.Equal
			}
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s.%s has signature %T, want func(a, b interface{}) int or bool",
			datagrid.ErrScript, p.pkg, name, fn)
	}
}

// Renderer returns the named function as a cell renderer. It accepts
// func(interface{}) interface{} or func(interface{}) string.
func (p *Program) Renderer(name string) (datagrid.Renderer, error) {
	fn, err := p.lookup(name)
	if err != nil {
		return nil, err
	}

	switch f := fn.(type) {
	case func(any) any:
		return f, nil
	case func(any) string:
		return func(v any) any {
			return f(v)
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s.%s has signature %T, want func(interface{}) interface{} or string",
			datagrid.ErrScript, p.pkg, name, fn)
	}
}
