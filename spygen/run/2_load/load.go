// Package load reads a Go package's source into DST without type checking.
package load

import (
	"errors"
	"fmt"
	"go/build"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
	"golang.org/x/mod/modfile"
)

// Package is a parsed package.
type Package struct {
	// Dir is the directory the files were read from.
	Dir string
	// ImportPath is the package's import path. For the current directory it
	// is derived from the enclosing go.mod, and is "." when there is none.
	ImportPath string
	Files      []*dst.File
	Fset       *token.FileSet
}

// Name returns the package name of the first non-test file, falling back to
// the first file's package name.
func (p *Package) Name() string {
	for _, file := range p.Files {
		if !strings.HasSuffix(file.Name.Name, "_test") {
			return file.Name.Name
		}
	}

	if len(p.Files) > 0 {
		return p.Files[0].Name.Name
	}

	return ""
}

// Dir loads the package in dir. Test files are included when includeTests is
// set. Files that fail to parse are skipped.
func Dir(dir string, includeTests bool) (*Package, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	fset := token.NewFileSet()
	dec := decorator.NewDecorator(fset)
	pkg := &Package{Dir: dir, Fset: fset}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}

		if !includeTests && strings.HasSuffix(name, "_test.go") {
			continue
		}

		file, err := dec.ParseFile(filepath.Join(dir, name), nil, 0)
		if err != nil {
			continue
		}

		pkg.Files = append(pkg.Files, file)
	}

	if len(pkg.Files) == 0 {
		return nil, fmt.Errorf("%w: no parseable .go files in %s", ErrNoPackage, dir)
	}

	return pkg, nil
}

// ImportPath loads a package by import path. "." is the current directory,
// with test files. A bare name that matches a local subdirectory loads that
// subdirectory, so a local "time" package shadows the standard one. Anything
// else is resolved with go/build, without test files.
func ImportPath(importPath string) (*Package, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	if importPath == "." {
		pkg, err := Dir(wd, true)
		if err != nil {
			return nil, err
		}

		pkg.ImportPath = ModuleImportPath(wd)

		return pkg, nil
	}

	if local, ok := localSubdir(wd, importPath); ok {
		pkg, err := Dir(local, false)
		if err != nil {
			return nil, err
		}

		pkg.ImportPath = ModuleImportPath(local)

		return pkg, nil
	}

	found, err := build.Import(importPath, wd, build.FindOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to find package %q: %w", importPath, err)
	}

	pkg, err := Dir(found.Dir, false)
	if err != nil {
		return nil, err
	}

	pkg.ImportPath = importPath

	return pkg, nil
}

// ModuleImportPath derives the import path of dir from the nearest go.mod
// above it. It returns "." when dir is not inside a module.
func ModuleImportPath(dir string) string {
	for root := dir; ; {
		data, err := os.ReadFile(filepath.Join(root, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(data)
			if modPath == "" {
				return "."
			}

			rel, err := filepath.Rel(root, dir)
			if err != nil {
				return "."
			}

			return path.Join(modPath, filepath.ToSlash(rel))
		}

		parent := filepath.Dir(root)
		if parent == root {
			return "."
		}

		root = parent
	}
}

// ErrNoPackage is returned when a directory holds no usable Go source.
var ErrNoPackage = errors.New("no package found")

func localSubdir(wd, importPath string) (string, bool) {
	if strings.Contains(importPath, "/") || filepath.IsAbs(importPath) {
		return "", false
	}

	dir := filepath.Join(wd, importPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".go") {
			return dir, true
		}
	}

	return "", false
}
