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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/apifix/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const (
	// DefaultRoot is the directory scanned when none is configured
	DefaultRoot = "."
	// DefaultInclude selects the Pages Router API handlers
	DefaultInclude = "pages/api/**/*.ts"
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

// 🔄 Rule is an extra rewrite rule declared in a config file
type Rule struct {
	Name        string `json:"name" yaml:"name"`
	Pattern     string `json:"pattern" yaml:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement"`
	Files       string `json:"files,omitempty" yaml:"files,omitempty"` // doublestar filter, defaults to "**"
}

// 📚 Config is everything a fix pass needs. It is built once and handed to the fixer.
type Config struct {
	Root               string   `json:"root,omitempty" yaml:"root,omitempty"`
	Include            string   `json:"include,omitempty" yaml:"include,omitempty"`
	Ignore             []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	DisableDefaultRule bool     `json:"disable_default_rule,omitempty" yaml:"disable_default_rule,omitempty"`
	Rules              []Rule   `json:"rules,omitempty" yaml:"rules,omitempty"`

	// DryRun is only ever set from the command line
	DryRun bool `json:"-" yaml:"-"`
}

// 🏭 Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Root:    DefaultRoot,
		Include: DefaultInclude,
	}
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
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

	// a relative root is relative to the config file, not the working directory
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	return cfg, nil
}

// 🔍 Validate fills defaults and checks the rules compile
func (cfg *Config) Validate() error {
	if cfg.Root == "" {
		cfg.Root = DefaultRoot
	}
	if cfg.Include == "" {
		cfg.Include = DefaultInclude
	}
	cfg.Root = filepath.Clean(cfg.Root)

	if !doublestar.ValidatePattern(cfg.Include) {
		return errors.Errorf("invalid include pattern %q", cfg.Include)
	}
	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}

	for i := range cfg.Rules {
		if cfg.Rules[i].Name == "" {
			cfg.Rules[i].Name = fmt.Sprintf("rule-%d", i)
		}
		if cfg.Rules[i].Files == "" {
			cfg.Rules[i].Files = "**"
		}
	}

	rules := cfg.ReplacementRules()
	if len(rules) == 0 {
		return errors.Errorf("no rules: default rule is disabled and none are configured")
	}

	if err := text.ValidateRules(rules); err != nil {
		return errors.Errorf("validating rules: %w", err)
	}

	return nil
}

// 🔄 ReplacementRules returns the built-in rule (unless disabled) followed by the configured ones
func (cfg *Config) ReplacementRules() []text.ReplacementRule {
	var rules []text.ReplacementRule
	if !cfg.DisableDefaultRule {
		rules = append(rules, text.DefaultRule())
	}
	for _, r := range cfg.Rules {
		rules = append(rules, text.ReplacementRule{
			Name:           r.Name,
			Pattern:        r.Pattern,
			Template:       r.Replacement,
			FileFilterGlob: r.Files,
		})
	}
	return rules
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s:%s (%d rules)", cfg.Root, cfg.Include, len(cfg.ReplacementRules()))
}
