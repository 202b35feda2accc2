// Package generate renders the Go source of a typed spy for an interface.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"path"
	"slices"
	"strconv"
	"strings"

	astutil "github.com/toejough/impspy/spygen/run/0_util"
	detect "github.com/toejough/impspy/spygen/run/3_detect"
)

// ImpspyImportPath is the import path generated spies use for the runtime.
const ImpspyImportPath = "github.com/toejough/impspy"

// Options describes the spy to generate.
type Options struct {
	// PkgName is the package clause of the generated file.
	PkgName string
	// SpyName names the generated struct.
	SpyName string
	// Promise and Stream list the methods that return promises and streams.
	// A method in both is a promise method.
	Promise []string
	Stream  []string
}

// Spy returns the source of a struct that implements iface on top of an
// impspy.Mock. The source is not formatted and its imports may include
// unused entries.
func Spy(iface detect.Interface, opts Options) (string, error) {
	gen := &generator{opts: opts, imports: map[string]string{ImpspyImportPath: "impspy"}}

	err := gen.validate(iface)
	if err != nil {
		return "", err
	}

	ifaceType, err := gen.interfaceType(iface)
	if err != nil {
		return "", err
	}

	methods := make([]methodData, 0, len(iface.Methods))

	for _, method := range iface.Methods {
		data, err := gen.method(method)
		if err != nil {
			return "", err
		}

		methods = append(methods, data)
	}

	names := make([]string, len(iface.Methods))
	for i, method := range iface.Methods {
		names[i] = method.Name
	}

	registry := NewTemplateRegistry()

	var buf bytes.Buffer

	registry.WriteHeader(&buf, headerData{PkgName: opts.PkgName, Imports: gen.importLines()})
	registry.WriteSpyStruct(&buf, spyData{
		SpyName:     opts.SpyName,
		IfaceName:   iface.Name,
		IfaceType:   ifaceType,
		MethodNames: names,
		Promise:     gen.promise(),
		Stream:      gen.stream(),
	})

	for _, method := range methods {
		registry.WriteMethod(&buf, method)
	}

	return buf.String(), nil
}

// Exported sentinels, so callers can branch on the failure.
var (
	ErrBadPromiseShape     = errors.New("promise methods must return (T, error), T, or error")
	ErrBadStreamShape      = errors.New("stream methods must return <-chan T or (<-chan T, error)")
	ErrUnexportedInterface = errors.New("cannot spy on an unexported interface from another package")
	ErrUnknownMethod       = errors.New("no such method on the interface")
)

type generator struct {
	opts Options
	// imports maps import path to the name the generated code uses for it.
	imports map[string]string
}

type headerData struct {
	PkgName string
	Imports []string
}

// kind is the generator's own view of a method kind.
type kind int

const (
	kindPlain kind = iota
	kindPromise
	kindStream
)

type methodData struct {
	SpyName     string
	Name        string
	Kind        kind
	Params      string
	Args        string
	Results     string
	ResultTypes []string
	CtxArg      string
	ValueType   string
	HasErr      bool
	ValueVar    string
	ErrVar      string
}

type spyData struct {
	SpyName     string
	IfaceName   string
	IfaceType   string
	MethodNames []string
	Promise     []string
	Stream      []string
}

func (gen *generator) importLines() []string {
	paths := make([]string, 0, len(gen.imports))
	for importPath := range gen.imports {
		paths = append(paths, importPath)
	}

	slices.Sort(paths)

	lines := make([]string, len(paths))

	for i, importPath := range paths {
		name := gen.imports[importPath]
		if name == path.Base(importPath) {
			lines[i] = strconv.Quote(importPath)
			continue
		}

		lines[i] = name + " " + strconv.Quote(importPath)
	}

	return lines
}

func (gen *generator) interfaceType(iface detect.Interface) (string, error) {
	qualifier := gen.qualifier(iface.Source)
	if qualifier == "" {
		return iface.Name, nil
	}

	if !token.IsExported(iface.Name) {
		return "", fmt.Errorf("%w: %s.%s", ErrUnexportedInterface, qualifier, iface.Name)
	}

	return qualifier + "." + iface.Name, nil
}

func (gen *generator) kindOf(name string) kind {
	switch {
	case slices.Contains(gen.opts.Promise, name):
		return kindPromise
	case slices.Contains(gen.opts.Stream, name):
		return kindStream
	default:
		return kindPlain
	}
}

func (gen *generator) method(method detect.Method) (methodData, error) {
	qualifier := gen.qualifier(method.Source)

	err := gen.useImports(method)
	if err != nil {
		return methodData{}, err
	}

	paramTypes := astutil.FieldTypes(method.Func.Params, qualifier)
	resultTypes := astutil.FieldTypes(method.Func.Results, qualifier)

	params := make([]string, len(paramTypes))
	args := make([]string, len(paramTypes))

	for i, typ := range paramTypes {
		args[i] = fmt.Sprintf("arg%d", i)
		params[i] = args[i] + " " + typ
	}

	data := methodData{
		SpyName:     gen.opts.SpyName,
		Name:        method.Name,
		Kind:        gen.kindOf(method.Name),
		Params:      strings.Join(params, ", "),
		Args:        strings.Join(args, ", "),
		Results:     formatResults(resultTypes),
		ResultTypes: resultTypes,
	}

	switch data.Kind {
	case kindPromise:
		return promiseShape(data, paramTypes, resultTypes)
	case kindStream:
		return streamShape(data, resultTypes)
	default:
		return data, nil
	}
}

func (gen *generator) promise() []string {
	return unique(gen.opts.Promise)
}

// qualifier returns the package name to prefix a source's exported names
// with, and records the import it needs. Local and builtin sources need none.
func (gen *generator) qualifier(source detect.Source) string {
	if source.PkgName == "" || source.PkgName == gen.opts.PkgName {
		return ""
	}

	gen.imports[source.ImportPath] = source.PkgName

	return source.PkgName
}

func (gen *generator) stream() []string {
	return slices.DeleteFunc(unique(gen.opts.Stream), func(name string) bool {
		return slices.Contains(gen.opts.Promise, name)
	})
}

// useImports records the imports the method's qualified types need.
func (gen *generator) useImports(method detect.Method) error {
	for _, ref := range astutil.PackageRefs(method.Func) {
		importPath, err := detect.FindImportPath(method.Source.Imports, ref)
		if err != nil {
			return fmt.Errorf("method %s: %w", method.Name, err)
		}

		gen.imports[importPath] = ref
	}

	return nil
}

func (gen *generator) validate(iface detect.Interface) error {
	names := make([]string, len(iface.Methods))
	for i, method := range iface.Methods {
		names[i] = method.Name
	}

	for _, listed := range slices.Concat(gen.opts.Promise, gen.opts.Stream) {
		if !slices.Contains(names, listed) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownMethod, iface.Name, listed)
		}
	}

	return nil
}

func formatResults(types []string) string {
	switch len(types) {
	case 0:
		return ""
	case 1:
		return " " + types[0]
	default:
		return " (" + strings.Join(types, ", ") + ")"
	}
}

func promiseShape(data methodData, paramTypes, resultTypes []string) (methodData, error) {
	if len(paramTypes) > 0 && paramTypes[0] == "context.Context" {
		data.CtxArg = "arg0"
	}

	switch {
	case len(resultTypes) == 1 && resultTypes[0] == "error":
		data.HasErr = true
	case len(resultTypes) == 1:
		data.ValueType = resultTypes[0]
	case len(resultTypes) == 2 && resultTypes[1] == "error":
		data.ValueType = resultTypes[0]
		data.HasErr = true
	default:
		return methodData{}, fmt.Errorf("%w: %s returns (%s)",
			ErrBadPromiseShape, data.Name, strings.Join(resultTypes, ", "))
	}

	data.ValueVar, data.ErrVar = "_", "_"

	if data.ValueType != "" {
		data.ValueVar = "value"
	}

	if data.HasErr {
		data.ErrVar = "err"
	}

	return data, nil
}

func streamShape(data methodData, resultTypes []string) (methodData, error) {
	const chanPrefix = "<-chan "

	valid := len(resultTypes) > 0 && strings.HasPrefix(resultTypes[0], chanPrefix) &&
		(len(resultTypes) == 1 || (len(resultTypes) == 2 && resultTypes[1] == "error"))
	if !valid {
		return methodData{}, fmt.Errorf("%w: %s returns (%s)",
			ErrBadStreamShape, data.Name, strings.Join(resultTypes, ", "))
	}

	data.ValueType = strings.TrimPrefix(resultTypes[0], chanPrefix)
	data.HasErr = len(resultTypes) == 2

	return data, nil
}

func unique(names []string) []string {
	out := make([]string, 0, len(names))

	for _, name := range names {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	return out
}
