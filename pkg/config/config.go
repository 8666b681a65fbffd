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
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/stylecheck/pkg/fragment"
	"github.com/walteh/stylecheck/pkg/grammar"
	"github.com/walteh/stylecheck/pkg/rules"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/language"
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

// FileNames are the config files Find looks for, in order
var FileNames = []string{".stylecheck.yaml", ".stylecheck.yml", ".stylecheck.hcl", ".stylecheck.json"}

// 📏 RuleConfig declares a custom rule
type RuleConfig struct {
	ID           string `json:"id" yaml:"id"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Pattern      string `json:"pattern" yaml:"pattern"`
	Replacement  string `json:"replacement" yaml:"replacement"`
	IgnoreCase   bool   `json:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`
	PreserveCase bool   `json:"preserve_case,omitempty" yaml:"preserve_case,omitempty"`
}

// 🌐 GrammarConfig configures the external grammar advisor
type GrammarConfig struct {
	Enabled  bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // Go duration, e.g. "10s"

	timeout time.Duration
}

// TimeoutDuration returns the parsed per-call timeout
func (g GrammarConfig) TimeoutDuration() time.Duration {
	return g.timeout
}

// 📊 DiffConfig configures diff rendering
type DiffConfig struct {
	MaxLength int `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Context   int `json:"context,omitempty" yaml:"context,omitempty"`
}

// 💾 OutputConfig configures how cleaned documents are written
type OutputConfig struct {
	Backup bool `json:"backup,omitempty" yaml:"backup,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Language  string        `json:"language,omitempty" yaml:"language,omitempty"`
	SkipTags  []string      `json:"skip_tags,omitempty" yaml:"skip_tags,omitempty"`
	MinLength int           `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	Enable    []string      `json:"enable,omitempty" yaml:"enable,omitempty"`
	Disable   []string      `json:"disable,omitempty" yaml:"disable,omitempty"`
	Rules     []RuleConfig  `json:"rules,omitempty" yaml:"rules,omitempty"`
	Grammar   GrammarConfig `json:"grammar,omitempty" yaml:"grammar,omitempty"`
	Diff      DiffConfig    `json:"diff,omitempty" yaml:"diff,omitempty"`
	Output    OutputConfig  `json:"output,omitempty" yaml:"output,omitempty"`

	tag language.Tag
}

// 🏭 Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

// 🔎 Find looks for a config file in dir
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
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

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks the configuration and fills in defaults
func (cfg *Config) Validate() error {
	if cfg.Language == "" {
		cfg.Language = grammar.DefaultLanguage
	}
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return errors.Errorf("language %q: %w", cfg.Language, err)
	}
	cfg.tag = tag

	if cfg.SkipTags == nil {
		cfg.SkipTags = append([]string{}, fragment.DefaultSkipTags...)
	}
	for i, t := range cfg.SkipTags {
		cfg.SkipTags[i] = strings.ToLower(strings.TrimSpace(t))
	}

	switch {
	case cfg.MinLength < 0:
		return errors.Errorf("min_length must not be negative")
	case cfg.MinLength == 0:
		cfg.MinLength = fragment.DefaultMinLength
	}

	for _, p := range append(append([]string{}, cfg.Enable...), cfg.Disable...) {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid rule pattern %q", p)
		}
	}

	seen := make(map[string]bool, len(cfg.Rules))
	for i, r := range cfg.Rules {
		if r.ID == "" {
			return errors.Errorf("rules[%d].id is required", i)
		}
		if r.Pattern == "" {
			return errors.Errorf("rules[%d].pattern is required", i)
		}
		if seen[r.ID] {
			return errors.Errorf("rules[%d]: duplicate id %q", i, r.ID)
		}
		seen[r.ID] = true
	}

	if cfg.Grammar.Endpoint == "" {
		cfg.Grammar.Endpoint = grammar.DefaultEndpoint
	}
	if cfg.Grammar.Timeout == "" {
		cfg.Grammar.Timeout = grammar.DefaultTimeout.String()
	}
	d, err := time.ParseDuration(cfg.Grammar.Timeout)
	if err != nil {
		return errors.Errorf("grammar.timeout: %w", err)
	}
	if d <= 0 {
		return errors.Errorf("grammar.timeout must be positive")
	}
	cfg.Grammar.timeout = d

	if cfg.Diff.MaxLength < 0 {
		return errors.Errorf("diff.max_length must not be negative")
	}
	if cfg.Diff.Context < 0 {
		return errors.Errorf("diff.context must not be negative")
	}

	return nil
}

// Tag returns the parsed language tag
func (cfg *Config) Tag() language.Tag {
	return cfg.tag
}

// 📚 RuleSet builds the active rules: the built-in catalog followed by the
// custom rules, narrowed by the enable and disable patterns
func (cfg *Config) RuleSet() (*rules.Set, error) {
	all := rules.Default(cfg.tag).Rules()
	for _, rc := range cfg.Rules {
		r, err := rules.Compile(rules.Definition{
			ID:           rc.ID,
			Description:  rc.Description,
			Pattern:      rc.Pattern,
			Replacement:  rc.Replacement,
			IgnoreCase:   rc.IgnoreCase,
			PreserveCase: rc.PreserveCase,
		}, cfg.tag)
		if err != nil {
			return nil, errors.Errorf("compiling custom rule: %w", err)
		}
		all = append(all, r)
	}

	set, err := rules.NewSet(all...)
	if err != nil {
		return nil, errors.Errorf("building rule set: %w", err)
	}

	selected, err := set.Select(cfg.Enable, cfg.Disable)
	if err != nil {
		return nil, errors.Errorf("selecting rules: %w", err)
	}
	return selected, nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	grammarState := "off"
	if cfg.Grammar.Enabled {
		grammarState = cfg.Grammar.Endpoint
	}
	return fmt.Sprintf("language=%s skip=%s min=%d custom_rules=%d grammar=%s",
		cfg.Language, strings.Join(cfg.SkipTags, ","), cfg.MinLength, len(cfg.Rules), grammarState)
}
