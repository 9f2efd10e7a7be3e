// Package config provides configuration management for vocab-go.
//
// Configuration is loaded in the following order (later sources override
// earlier ones):
//  1. Default values
//  2. Configuration file (./vocab.yaml, ~/.vocab-go/vocab.yaml, or an explicit path)
//  3. Environment variables (VOCAB_ prefix, "." replaced by "_")
//
// Command-line flags are applied on top by the caller, after which Validate
// checks the merged result.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Benny93/vocab-go/internal/annotate"
	"github.com/Benny93/vocab-go/internal/export"
	"github.com/Benny93/vocab-go/internal/profile"
)

// Config is the root configuration of a vocab-go run.
type Config struct {
	// Catalog is the IRI of the owning catalog.
	Catalog string `mapstructure:"catalog" yaml:"catalog" json:"catalog" validate:"omitempty,url"`

	// Profile is the IRI of the active profile.
	Profile string `mapstructure:"profile" yaml:"profile" json:"profile" validate:"required,url"`

	// OutputDir receives the generated artifacts.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir" validate:"required"`

	// BackgroundDir holds label files for IRIs not described in the input.
	BackgroundDir string `mapstructure:"background_dir" yaml:"background_dir" json:"background_dir"`

	// ShapesDir holds the SHACL shapes compiled into the profile.
	ShapesDir string `mapstructure:"shapes_dir" yaml:"shapes_dir" json:"shapes_dir"`

	// ValidationShapesDir overrides the embedded conformance shapes.
	ValidationShapesDir string `mapstructure:"validation_shapes_dir" yaml:"validation_shapes_dir" json:"validation_shapes_dir"`

	// Formats is the output allow-list. Empty means all formats.
	Formats []string `mapstructure:"formats" yaml:"formats" json:"formats" validate:"dive,outputformat"`

	// Kind forces the focus entity kind; "auto" detects it per document.
	Kind string `mapstructure:"kind" yaml:"kind" json:"kind" validate:"oneof=auto conceptScheme concept catalog collection"`

	// Strict turns nonconforming documents into a failed run.
	Strict bool `mapstructure:"strict" yaml:"strict" json:"strict"`

	// Workers bounds the number of documents processed concurrently.
	Workers int `mapstructure:"workers" yaml:"workers" json:"workers" validate:"min=1,max=256"`

	// ConceptDocuments also emits one document per concept of each scheme.
	ConceptDocuments bool `mapstructure:"concept_documents" yaml:"concept_documents" json:"concept_documents"`

	// Languages ranks label language tags.
	Languages []string `mapstructure:"languages" yaml:"languages" json:"languages"`

	// CacheDir is the label cache location. Empty disables caching.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir" json:"cache_dir"`

	// Exclude holds gitignore-style patterns skipped while walking inputs.
	Exclude []string `mapstructure:"exclude" yaml:"exclude" json:"exclude"`

	// Namespaces adds prefix bindings to the built-in table.
	Namespaces map[string]string `mapstructure:"namespaces" yaml:"namespaces" json:"namespaces" validate:"dive,url"`

	// Links are the navigation URL templates.
	Links annotate.LinkTemplates `mapstructure:"links" yaml:"links" json:"links"`

	// Logging contains logging settings.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level" yaml:"level" json:"level" validate:"oneof=debug info warn error"`

	// Format is the log format (json, text)
	Format string `mapstructure:"format" yaml:"format" json:"format" validate:"oneof=json text"`
}

// FileName is the configuration file name searched for by Load.
const FileName = "vocab.yaml"

// Load reads configuration from a file and environment variables.
// If cfgFile is empty, vocab.yaml is searched for in the working directory
// and in $HOME/.vocab-go; a missing file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("vocab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vocab-go")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			if !isFileNotFoundError(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("VOCAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults are static and always decode.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("profile", profile.DefaultIRI)
	v.SetDefault("output_dir", "out")
	v.SetDefault("formats", []string{})
	v.SetDefault("kind", "auto")
	v.SetDefault("strict", false)
	v.SetDefault("workers", 1)
	v.SetDefault("concept_documents", false)
	v.SetDefault("languages", []string{"en"})
	v.SetDefault("cache_dir", "")
	v.SetDefault("exclude", []string{})
	v.SetDefault("namespaces", map[string]string{})

	links := annotate.DefaultLinkTemplates()
	v.SetDefault("links.catalog", links.Catalog)
	v.SetDefault("links.scheme", links.Scheme)
	v.SetDefault("links.members", links.Members)
	v.SetDefault("links.concept", links.Concept)
	v.SetDefault("links.collection", links.Collection)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("outputformat", func(fl validator.FieldLevel) bool {
		_, ok := export.Suffix(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// FocusKind returns the forced kind, or false for auto detection.
func (c *Config) FocusKind() (profile.Kind, bool) {
	if c.Kind == "" || c.Kind == "auto" {
		return "", false
	}
	return profile.ParseKind(c.Kind)
}

// AnnotateConfig returns the routing configuration for the builder.
func (c *Config) AnnotateConfig() annotate.Config {
	return annotate.Config{Catalog: c.Catalog, Profile: c.Profile, Links: c.Links}
}

// Write serializes cfg to path as YAML or JSON, chosen by extension.
// An existing file is not overwritten unless force is set.
func Write(cfg *Config, path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// isFileNotFoundError checks if an error is a file not found error.
func isFileNotFoundError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return errors.Is(pathErr, os.ErrNotExist)
	}
	return false
}
