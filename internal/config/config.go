// Package config loads the optional cjsongen.yaml generator settings.
//
// Values merge in order: defaults, then the file, then command-line flags
// (applied by the caller through Overrides).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/cjsongen/internal/cgen"
)

// DefaultFile is looked up in the working directory when no --config
// flag is given.
const DefaultFile = "cjsongen.yaml"

var validate = validator.New()

// Config holds generator settings.
type Config struct {
	InitialCapacity int      `yaml:"initial_capacity" validate:"gte=1,lte=1048576"`
	IndentWidth     int      `yaml:"indent_width" validate:"gte=1,lte=16"`
	HeaderGuard     string   `yaml:"header_guard" validate:"omitempty,c_identifier"`
	Outputs         []string `yaml:"outputs" validate:"omitempty,unique,dive,oneof=types ser de"`
	CacheDB         string   `yaml:"cache_db"`
}

func init() {
	_ = validate.RegisterValidation("c_identifier", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for i, r := range s {
			switch {
			case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
		return s != ""
	})
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		InitialCapacity: cgen.DefaultInitialCapacity,
		IndentWidth:     cgen.DefaultIndentWidth,
	}
}

// Load reads path over the defaults. A missing file is an error unless
// optional is set, in which case the defaults are returned.
func Load(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Defaults(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(name string, data []byte) (Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", name, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err
	}
	messages := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		messages = append(messages, yamlName(ve.StructField())+": "+formatValidationError(ve))
	}
	return &ValidationError{Messages: messages}
}

// ValidationError lists every invalid setting.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Messages, "; ")
}

// Overrides are command-line values. Zero values leave the setting alone.
type Overrides struct {
	InitialCapacity int
	IndentWidth     int
	HeaderGuard     string
	Outputs         []string
	CacheDB         string
}

// Apply returns c with non-zero overrides applied and validated.
func (c Config) Apply(o Overrides) (Config, error) {
	if o.InitialCapacity != 0 {
		c.InitialCapacity = o.InitialCapacity
	}
	if o.IndentWidth != 0 {
		c.IndentWidth = o.IndentWidth
	}
	if o.HeaderGuard != "" {
		c.HeaderGuard = o.HeaderGuard
	}
	if len(o.Outputs) > 0 {
		c.Outputs = o.Outputs
	}
	if o.CacheDB != "" {
		c.CacheDB = o.CacheDB
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Options converts the settings into generator options.
func (c Config) Options() (cgen.Options, error) {
	opts := cgen.Options{InitialCapacity: c.InitialCapacity, IndentWidth: c.IndentWidth}
	for _, name := range c.Outputs {
		sec, err := cgen.ParseSection(name)
		if err != nil {
			return cgen.Options{}, err
		}
		opts.Sections = append(opts.Sections, sec)
	}
	return opts, nil
}

func yamlName(field string) string {
	if base, index, ok := strings.Cut(field, "["); ok {
		return yamlName(base) + "[" + index
	}
	switch field {
	case "InitialCapacity":
		return "initial_capacity"
	case "IndentWidth":
		return "indent_width"
	case "HeaderGuard":
		return "header_guard"
	case "Outputs":
		return "outputs"
	case "CacheDB":
		return "cache_db"
	}
	return field
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(ve validator.FieldError) string {
	switch ve.Tag() {
	case "gte":
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", ve.Param())
	case "unique":
		return "must not repeat"
	case "c_identifier":
		return "must be a C identifier"
	default:
		if ve.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", ve.Tag(), ve.Param())
		}
		return fmt.Sprintf("failed %s validation", ve.Tag())
	}
}
