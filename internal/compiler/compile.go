package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/cjsongen/internal/schema"
)

// Format identifies a schema source language.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the front-end from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported schema file %q (expected .cue, .yaml, .yml or .json)", path)
	}
}

// Compile parses src in the given format and validates the resulting
// definitions.
func Compile(format Format, filename string, src []byte) ([]schema.Struct, error) {
	var (
		defs []schema.Struct
		err  error
	)
	switch format {
	case FormatCUE:
		defs, err = CompileCUEBytes(filename, src)
	case FormatYAML:
		defs, err = CompileYAML(filename, src)
	case FormatJSON:
		defs, err = CompileJSON(filename, src)
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, &CompileError{Field: "struct", Message: "no struct definitions", File: filename}
	}
	if err := schema.ValidateAll(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// CompileFile reads path and compiles it with the front-end chosen by its
// extension.
func CompileFile(path string) ([]schema.Struct, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(format, path, src)
}
