// Package run implements the main logic for the spygen tool in a testable way.
package run

import (
	"fmt"
	"io"
	"strings"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	detect "github.com/toejough/impspy/spygen/run/3_detect"
	generate "github.com/toejough/impspy/spygen/run/5_generate"
	output "github.com/toejough/impspy/spygen/run/6_output"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileSystem interface for writing generated files.
type FileSystem = output.Writer

// PackageLoader loads packages by import path; "." is the package being
// generated into.
type PackageLoader = detect.PackageLoader

// Run executes the spygen tool logic. It takes command-line arguments, an
// environment variable getter, a FileSystem for writing, a PackageLoader for
// reading source, and a writer for status output. On success it writes a Go
// file with a typed spy for the named interface into the calling package.
func Run(args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out io.Writer) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return err
	}

	logger := newLogger(parsed.Verbose, out)
	defer func() { _ = logger.Sync() }()

	info := newGeneratorInfo(parsed, getEnv("GOPACKAGE"))
	logger.Debug("generating spy",
		zap.String("interface", parsed.Interface),
		zap.String("spy", info.spyName),
		zap.String("package", info.pkgName),
	)

	iface, err := findInterface(info, pkgLoader, logger)
	if err != nil {
		return err
	}

	logger.Debug("interface resolved", zap.Int("methods", len(iface.Methods)))

	code, err := generate.Spy(iface, generate.Options{
		PkgName: info.pkgName,
		SpyName: info.spyName,
		Promise: info.promise,
		Stream:  info.stream,
	})
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", info.spyName, err)
	}

	return output.WriteGeneratedCode(code, info.spyName, info.pkgName, getEnv, fileSys, out)
}

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string   `arg:"positional,required" help:"interface to spy on (e.g. Store or pkg.Store)"`
	Name      string   `arg:"--name"              help:"name for the generated spy (defaults to <Interface>Spy)"`
	Promise   []string `arg:"--promise"           help:"methods that return a promise (comma or space separated)"`
	Stream    []string `arg:"--stream"            help:"methods that return a stream (comma or space separated)"`
	Verbose   bool     `arg:"-v,--verbose"        help:"log generation steps"`
}

// generatorInfo holds information gathered for generation.
type generatorInfo struct {
	pkgName       string
	qualifier     string
	interfaceName string
	spyName       string
	promise       []string
	stream        []string
}

func findInterface(info generatorInfo, pkgLoader PackageLoader, logger *zap.Logger) (detect.Interface, error) {
	localPkg, err := pkgLoader.Load(".")
	if err != nil {
		return detect.Interface{}, fmt.Errorf("failed to load the current package: %w", err)
	}

	ifacePkg := localPkg

	if info.qualifier != "" {
		var imports []*dst.ImportSpec
		for _, file := range localPkg.Files {
			imports = append(imports, file.Imports...)
		}

		importPath, err := detect.FindImportPath(imports, info.qualifier)
		if err != nil {
			return detect.Interface{}, err
		}

		logger.Debug("loading interface package", zap.String("import", importPath))

		ifacePkg, err = pkgLoader.Load(importPath)
		if err != nil {
			return detect.Interface{}, fmt.Errorf("failed to load %s: %w", importPath, err)
		}
	}

	iface, err := detect.FindInterface(ifacePkg, info.interfaceName, pkgLoader)
	if err != nil {
		return detect.Interface{}, fmt.Errorf("failed to resolve %s: %w", info.interfaceName, err)
	}

	return iface, nil
}

func newGeneratorInfo(parsed cliArgs, pkgName string) generatorInfo {
	qualifier, name, found := strings.Cut(parsed.Interface, ".")
	if !found {
		qualifier, name = "", parsed.Interface
	}

	spyName := parsed.Name
	if spyName == "" {
		spyName = name + "Spy"
	}

	return generatorInfo{
		pkgName:       pkgName,
		qualifier:     qualifier,
		interfaceName: name,
		spyName:       spyName,
		promise:       splitNames(parsed.Promise),
		stream:        splitNames(parsed.Stream),
	}
}

// newLogger logs to out in development format when verbose is set.
func newLogger(verbose bool, out io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""

	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		zapcore.DebugLevel,
	))
}

// parseArgs parses command-line arguments into cliArgs.
func parseArgs(args []string) (cliArgs, error) {
	var parsed cliArgs

	parser, err := arg.NewParser(arg.Config{Program: "spygen"}, &parsed)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if err != nil {
		return cliArgs{}, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, nil
}

// splitNames accepts both "--promise A,B" and "--promise A B".
func splitNames(values []string) []string {
	var names []string

	for _, value := range values {
		for name := range strings.SplitSeq(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}

	return names
}
