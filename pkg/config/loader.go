package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// markerNames are the configuration marker files recognized at a source
// root, in lookup order. Saving always writes the TOML form.
var markerNames = []string{"arboribus.toml", "arboribus.yaml", "arboribus.yml", "arboribus.hcl"}

// 📍 Path returns the canonical config file path for a source root.
func Path(root string) string {
	return filepath.Join(root, markerNames[0])
}

// 🎯 Load reads the configuration for a source root. A root without a
// marker file yields an empty configuration, not an error.
func Load(ctx context.Context, root string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	for _, name := range markerNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Errorf("reading config file: %w", err)
		}

		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("no parser found for file: %s", path)
		}

		cfg, err := p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing %s: %w", name, err)
		}

		logger.Debug().Str("path", path).Int("targets", len(cfg.Targets)).Msg("loaded configuration")
		return cfg, nil
	}

	logger.Debug().Str("root", root).Msg("no configuration marker found, starting empty")
	return New(), nil
}

// 💾 Save writes the configuration to the root's arboribus.toml.
func Save(ctx context.Context, root string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}

	f, err := os.Create(Path(root))
	if err != nil {
		return errors.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Errorf("encoding config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", Path(root)).Msg("saved configuration")
	return nil
}

// 🔍 FindSourceRoot climbs parent directories from start looking for a
// configuration marker file, one level at a time until the filesystem
// root. The caller supplies the starting directory explicitly; nothing
// here reads the process working directory.
func FindSourceRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range markerNames {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
