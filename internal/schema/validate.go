package schema

import (
	"fmt"
	"strings"
)

// ValidationError describes a structurally invalid definition.
type ValidationError struct {
	Path    string // dotted path of the offending element
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// reservedChars cannot appear in names since they are used to build
// qualified names.
const reservedChars = ".#"

// Validate checks names in the definition. It does not check the
// one-element array rule; that is the normalizer's job.
func (s Struct) Validate() error {
	if err := checkName(s.Name, ""); err != nil {
		return err
	}
	return validateFields(s.Fields, s.Name)
}

// ValidateAll validates every definition and rejects duplicate struct names.
func ValidateAll(defs []Struct) error {
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return err
		}
		if seen[def.Name] {
			return &ValidationError{Path: def.Name, Message: "duplicate struct definition"}
		}
		seen[def.Name] = true
	}
	return nil
}

func validateFields(fields Fields, path string) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if err := checkName(f.Name, path); err != nil {
			return err
		}
		fieldPath := path + "." + f.Name
		if seen[f.Name] {
			return &ValidationError{Path: fieldPath, Message: "duplicate field name"}
		}
		seen[f.Name] = true
		if err := validateValue(f.Value, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(v Value, path string) error {
	switch val := v.(type) {
	case Primitive:
		if val.Kind == KindInvalid {
			return &ValidationError{Path: path, Message: "missing primitive type"}
		}
		return nil
	case Fields:
		return validateFields(val, path)
	case Array:
		for _, elem := range val.Elems {
			if err := validateValue(elem, path); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return &ValidationError{Path: path, Message: "missing value"}
	default:
		panic(fmt.Sprintf("schema: unhandled value %T", v))
	}
}

func checkName(name, parent string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Path: parent, Message: "empty name"}
	}
	if strings.ContainsAny(name, reservedChars) {
		path := name
		if parent != "" {
			path = parent + "." + name
		}
		return &ValidationError{Path: path, Message: fmt.Sprintf("name must not contain any of %q", reservedChars)}
	}
	return nil
}
