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

// Package config holds the per-source-root arboribus configuration: a
// set of named targets, each with a destination path and ordered
// include/exclude pattern lists. The core engine consumes these as
// plain string lists and never mutates them.
package config

import (
	"context"
	"sort"

	"gitlab.com/tozd/go/errors"
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

// 📦 Target is a named external destination directory plus its rule
// lists. Patterns are glob strings relative to the source root;
// exclude patterns are plain path prefixes.
type Target struct {
	Path            string   `toml:"path" json:"path" yaml:"path"`
	Patterns        []string `toml:"patterns" json:"patterns" yaml:"patterns"`
	ExcludePatterns []string `toml:"exclude-patterns" json:"exclude-patterns" yaml:"exclude-patterns"`
}

// 📚 Config is the complete per-source-root configuration.
type Config struct {
	Targets map[string]*Target `toml:"targets" json:"targets" yaml:"targets"`
}

// 🏭 New returns an empty configuration ready for targets.
func New() *Config {
	return &Config{Targets: map[string]*Target{}}
}

// 🔍 Validate checks that every target has a destination path.
func (cfg *Config) Validate() error {
	for name, target := range cfg.Targets {
		if target == nil || target.Path == "" {
			return errors.Errorf("target %q: path is required", name)
		}
	}
	return nil
}

// TargetNames returns the configured target names in sorted order, so
// every command processes targets deterministically.
func (cfg *Config) TargetNames() []string {
	names := make([]string, 0, len(cfg.Targets))
	for name := range cfg.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
