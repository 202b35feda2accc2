// Package output formats generated code and writes it next to the caller.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/toejough/go-reorder"
	"golang.org/x/tools/imports"
)

// Writer interface for writing generated code.
type Writer interface {
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// FileName returns generated_<spyName>.go, or generated_<spyName>_test.go
// when generating into a test package or from a test file.
func FileName(spyName, pkgName, goFile string) string {
	base := "generated_" + strings.TrimSuffix(spyName, ".go")

	isTest := strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go")
	if isTest && !strings.HasSuffix(base, "_test") {
		return base + "_test.go"
	}

	return base + ".go"
}

// WriteGeneratedCode fixes imports, formats and reorders code, then writes it
// to FileName. Code that cannot be formatted is an error; a failed reorder
// only warns on out.
func WriteGeneratedCode(code, spyName, pkgName string, getEnv func(string) string, fileWriter Writer, out io.Writer) error {
	const generatedFilePermissions = 0o600

	filename := FileName(spyName, pkgName, getEnv("GOFILE"))

	formatted, err := imports.Process(filename, []byte(code), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: false,
	})
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", filename, err)
	}

	reordered, err := reorder.Source(string(formatted))
	if err != nil {
		_, _ = fmt.Fprintf(out, "Warning: failed to reorder %s: %v\n", filename, err)

		reordered = string(formatted)
	}

	err = fileWriter.WriteFile(filename, []byte(reordered), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	_, _ = fmt.Fprintf(out, "%s written successfully.\n", filename)

	return nil
}
