// Package detect finds an interface declaration and flattens its method set.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"regexp"
	"strings"

	"github.com/dave/dst"
	load "github.com/toejough/impspy/spygen/run/2_load"
)

// Interface is a resolved interface with its embedded interfaces flattened.
type Interface struct {
	Name    string
	Source  Source
	Methods []Method
}

// Method is one method of an interface, with the source it was declared in.
// Embedded interfaces contribute methods whose Source differs from the
// interface's own.
type Method struct {
	Name   string
	Func   *dst.FuncType
	Source Source
}

// PackageLoader defines an interface for loading Go packages.
type PackageLoader interface {
	Load(importPath string) (*load.Package, error)
}

// Source identifies the file a declaration came from.
type Source struct {
	// PkgName is the package clause of the file. Empty for builtins.
	PkgName    string
	ImportPath string
	// Imports are the file's imports, used to resolve qualified names.
	Imports []*dst.ImportSpec
}

// FindImportPath finds the import path the given imports bind to pkgName.
// Unaliased imports match on their last path element, ignoring a major version
// suffix and a "go-" prefix.
func FindImportPath(imports []*dst.ImportSpec, pkgName string) (string, error) {
	for _, imp := range imports {
		path := strings.Trim(imp.Path.Value, "`\"")

		if imp.Name != nil {
			if imp.Name.Name == pkgName {
				return path, nil
			}

			continue
		}

		if guessPackageName(path) == pkgName {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrPackageNotFound, pkgName)
}

// FindInterface finds the interface called name in pkg and flattens its
// method set, loading the packages of embedded interfaces with loader.
func FindInterface(pkg *load.Package, name string, loader PackageLoader) (Interface, error) {
	finder := &finder{loader: loader, visited: make(map[string]bool)}

	methods, source, err := finder.interfaceMethods(pkg, name)
	if err != nil {
		return Interface{}, err
	}

	return Interface{Name: name, Source: source, Methods: methods}, nil
}

// Exported sentinels, so callers can branch on the failure.
var (
	ErrConstraintInterface = errors.New("interface contains type constraints")
	ErrGenericInterface    = errors.New("generic interfaces are not supported")
	ErrInterfaceNotFound   = errors.New("interface not found")
	ErrPackageNotFound     = errors.New("package not found in imports")
)

// unexported variables.
var (
	majorVersion = regexp.MustCompile(`^v[0-9]+$`)
)

type finder struct {
	loader  PackageLoader
	visited map[string]bool
	methods []Method
	seen    map[string]bool
}

func (f *finder) add(method Method) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}

	if f.seen[method.Name] {
		return
	}

	f.seen[method.Name] = true
	f.methods = append(f.methods, method)
}

func (f *finder) embed(field *dst.Field, source Source, pkg *load.Package) error {
	switch typed := field.Type.(type) {
	case *dst.Ident:
		switch typed.Name {
		case "error":
			f.add(errorMethod())
			return nil
		case "any":
			return nil
		case "comparable":
			return fmt.Errorf("%w: comparable", ErrConstraintInterface)
		}

		return f.walk(pkg, typed.Name)
	case *dst.SelectorExpr:
		pkgName, ok := typed.X.(*dst.Ident)
		if !ok {
			return fmt.Errorf("%w: %T", ErrConstraintInterface, typed.X)
		}

		importPath, err := FindImportPath(source.Imports, pkgName.Name)
		if err != nil {
			return err
		}

		other, err := f.loader.Load(importPath)
		if err != nil {
			return fmt.Errorf("failed to load %s for embedded %s.%s: %w",
				importPath, pkgName.Name, typed.Sel.Name, err)
		}

		return f.walk(other, typed.Sel.Name)
	default:
		return fmt.Errorf("%w: %T", ErrConstraintInterface, field.Type)
	}
}

func (f *finder) interfaceMethods(pkg *load.Package, name string) ([]Method, Source, error) {
	iface, source, err := lookup(pkg, name)
	if err != nil {
		return nil, Source{}, err
	}

	f.visited[pkg.ImportPath+"."+name] = true

	err = f.walkFields(iface, source, pkg)
	if err != nil {
		return nil, Source{}, err
	}

	return f.methods, source, nil
}

func (f *finder) walk(pkg *load.Package, name string) error {
	key := pkg.ImportPath + "." + name
	if f.visited[key] {
		return nil
	}

	f.visited[key] = true

	iface, source, err := lookup(pkg, name)
	if err != nil {
		return err
	}

	return f.walkFields(iface, source, pkg)
}

func (f *finder) walkFields(iface *dst.InterfaceType, source Source, pkg *load.Package) error {
	if iface.Methods == nil {
		return nil
	}

	for _, field := range iface.Methods.List {
		funcType, isMethod := field.Type.(*dst.FuncType)
		if isMethod && len(field.Names) > 0 {
			f.add(Method{Name: field.Names[0].Name, Func: funcType, Source: source})
			continue
		}

		err := f.embed(field, source, pkg)
		if err != nil {
			return err
		}
	}

	return nil
}

func errorMethod() Method {
	return Method{
		Name: "Error",
		Func: &dst.FuncType{
			Params:  &dst.FieldList{},
			Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("string")}}},
		},
	}
}

func guessPackageName(path string) string {
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]

	if majorVersion.MatchString(last) && len(parts) > 1 {
		last = parts[len(parts)-2]
	}

	last = strings.TrimPrefix(last, "go-")

	return strings.ReplaceAll(last, "-", "")
}

func lookup(pkg *load.Package, name string) (*dst.InterfaceType, Source, error) {
	for _, file := range pkg.Files {
		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name.Name != name {
					continue
				}

				iface, ok := typeSpec.Type.(*dst.InterfaceType)
				if !ok {
					continue
				}

				if typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0 {
					return nil, Source{}, fmt.Errorf("%w: %s", ErrGenericInterface, name)
				}

				return iface, Source{
					PkgName:    file.Name.Name,
					ImportPath: pkg.ImportPath,
					Imports:    file.Imports,
				}, nil
			}
		}
	}

	return nil, Source{}, fmt.Errorf("%w: %s in package %s", ErrInterfaceNotFound, name, pkg.ImportPath)
}
