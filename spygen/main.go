// spygen generates typed spies for Go interfaces.
//
// Install it with `go install github.com/toejough/impspy/spygen@latest`, then
// add a `//go:generate spygen <Interface>` comment next to the code that needs
// the spy. The generated struct is named <Interface>Spy unless --name is
// given, embeds an *impspy.Mock, and is written to generated_<Name>.go (or
// generated_<Name>_test.go in test packages).
//
// Methods listed with --promise return values the test settles later; methods
// listed with --stream return channels fed by the test:
//
//	//go:generate spygen Repo --promise Load,Save --stream Watch
package main

import (
	"fmt"
	"os"

	"github.com/toejough/impspy/spygen/run"
	load "github.com/toejough/impspy/spygen/run/2_load"
)

func main() {
	err := run.Run(os.Args, os.Getenv, &realFileSystem{}, &realPackageLoader{}, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// realFileSystem implements run.FileSystem using the os package.
type realFileSystem struct{}

// WriteFile writes data to the file named by name.
func (fs *realFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	err := os.WriteFile(name, data, perm)
	if err != nil {
		return fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return nil
}

// realPackageLoader implements run.PackageLoader by parsing source from disk.
type realPackageLoader struct{}

// Load loads a package by import path.
func (pl *realPackageLoader) Load(importPath string) (*load.Package, error) {
	pkg, err := load.ImportPath(importPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load package %q: %w", importPath, err)
	}

	return pkg, nil
}
