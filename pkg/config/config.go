// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/apirewrite/pkg/migrate"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config overrides the built-in migration constants. Empty fields keep their defaults.
type Config struct {
	Root          string   `json:"root,omitempty" yaml:"root,omitempty"`                     // Directory walked by the recursive driver
	SourceRoot    string   `json:"source_root,omitempty" yaml:"source_root,omitempty"`       // Directory import depth is measured from
	Extensions    []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`         // Recognized source file extensions
	Ignore        []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`                 // Doublestar globs skipped during the walk
	Marker        string   `json:"marker,omitempty" yaml:"marker,omitempty"`                 // Substring a candidate file must contain
	Receiver      string   `json:"receiver,omitempty" yaml:"receiver,omitempty"`             // Legacy client handle
	APIName       string   `json:"api_name,omitempty" yaml:"api_name,omitempty"`             // API name literal in legacy calls
	Factory       string   `json:"factory,omitempty" yaml:"factory,omitempty"`               // Client factory function
	FactoryModule string   `json:"factory_module,omitempty" yaml:"factory_module,omitempty"` // Module the factory is imported from
	TargetModule  string   `json:"target_module,omitempty" yaml:"target_module,omitempty"`   // Helper module below the source root
}

// 🏭 Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (cfg *Config) setDefaults() {
	calls := migrate.DefaultCallSpec()
	imports := migrate.DefaultImportSpec()

	if cfg.Root == "" {
		cfg.Root = filepath.Join("src", "components")
	}
	if cfg.SourceRoot == "" {
		cfg.SourceRoot = "src"
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".jsx", ".js"}
	}
	if cfg.Ignore == nil {
		cfg.Ignore = []string{"**/node_modules/**"}
	}
	if cfg.Receiver == "" {
		cfg.Receiver = calls.Receiver
	}
	if cfg.Marker == "" {
		cfg.Marker = cfg.Receiver + "."
	}
	if cfg.APIName == "" {
		cfg.APIName = calls.APIName
	}
	if cfg.Factory == "" {
		cfg.Factory = imports.Factory
	}
	if cfg.FactoryModule == "" {
		cfg.FactoryModule = imports.FactoryModule
	}
	if cfg.TargetModule == "" {
		cfg.TargetModule = imports.TargetModule
	}
}

// 🎯 Load loads the configuration from a file. An empty path yields Default().
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	if path == "" {
		logger.Debug().Msg("no config file, using defaults")
		return Default(), nil
	}

	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate fills defaults and checks the configuration
func (cfg *Config) Validate() error {
	cfg.setDefaults()

	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return errors.Errorf("extension %q must start with a dot", ext)
		}
		if strings.ContainsAny(ext, "/{}*?[]") {
			return errors.Errorf("extension %q contains glob characters", ext)
		}
	}

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	if strings.ContainsAny(cfg.Receiver, " \t\n.") {
		return errors.Errorf("receiver %q must be a single identifier", cfg.Receiver)
	}

	cfg.Root = filepath.Clean(cfg.Root)
	cfg.SourceRoot = filepath.Clean(cfg.SourceRoot)

	return nil
}

// CallSpec returns the call-site rule spec described by the config
func (cfg *Config) CallSpec() migrate.CallSpec {
	spec := migrate.DefaultCallSpec()
	spec.Receiver = cfg.Receiver
	spec.APIName = cfg.APIName
	return spec
}

// FlatCallSpec returns the reduced rule spec described by the config
func (cfg *Config) FlatCallSpec() migrate.CallSpec {
	spec := migrate.FlatCallSpec()
	spec.Receiver = cfg.Receiver
	spec.APIName = cfg.APIName
	return spec
}

// ImportSpec returns the import rewrite spec described by the config
func (cfg *Config) ImportSpec() migrate.ImportSpec {
	spec := migrate.DefaultImportSpec()
	spec.Factory = cfg.Factory
	spec.FactoryModule = cfg.FactoryModule
	spec.Receiver = cfg.Receiver
	spec.TargetModule = cfg.TargetModule
	return spec
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s.{get,post,put,del}('%s') in %s -> %s", cfg.Receiver, cfg.APIName, cfg.Root, cfg.TargetModule)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}
