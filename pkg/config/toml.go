package config

import (
	"context"
	"strings"

	"github.com/BurntSushi/toml"
	"gitlab.com/tozd/go/errors"
)

// 🔧 TOMLParser implements the Parser interface for TOML files, the
// primary arboribus config format.
type TOMLParser struct{}

func init() {
	Register(&TOMLParser{})
}

func (p *TOMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".toml")
}

func (p *TOMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Errorf("parsing TOML: %w", err)
	}

	if cfg.Targets == nil {
		cfg.Targets = map[string]*Target{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
