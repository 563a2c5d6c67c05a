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

package config_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/arboribus/pkg/config"
)

// 🧪 testContext returns a context carrying a test logger
func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		found    bool
	}{
		{"arboribus.toml", true},
		{"arboribus.yaml", true},
		{"arboribus.yml", true},
		{"arboribus.hcl", true},
		{"arboribus.ini", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p := config.GetParser(tt.filename)
			if tt.found {
				assert.NotNil(t, p)
			} else {
				assert.Nil(t, p)
			}
		})
	}
}

func TestTOMLParser(t *testing.T) {
	ctx := testContext(t)
	data := []byte(`
[targets.frontend]
path = "/repos/frontend"
patterns = ["libs/web*", "libs/shared"]
exclude-patterns = ["libs/web-legacy"]
`)

	cfg, err := (&config.TOMLParser{}).Parse(ctx, data)
	require.NoError(t, err)

	target := cfg.Targets["frontend"]
	require.NotNil(t, target)
	assert.Equal(t, "/repos/frontend", target.Path)
	assert.Equal(t, []string{"libs/web*", "libs/shared"}, target.Patterns)
	assert.Equal(t, []string{"libs/web-legacy"}, target.ExcludePatterns)
}

func TestTOMLParser_MissingPath(t *testing.T) {
	ctx := testContext(t)
	data := []byte(`
[targets.broken]
patterns = ["libs/*"]
`)

	_, err := (&config.TOMLParser{}).Parse(ctx, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestTOMLParser_EmptyDocument(t *testing.T) {
	ctx := testContext(t)

	cfg, err := (&config.TOMLParser{}).Parse(ctx, []byte(""))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Targets)
	assert.Empty(t, cfg.Targets)
}

func TestYAMLParser(t *testing.T) {
	ctx := testContext(t)
	data := []byte(`
targets:
  backend:
    path: /repos/backend
    patterns:
      - services/api*
    exclude-patterns: []
`)

	cfg, err := (&config.YAMLParser{}).Parse(ctx, data)
	require.NoError(t, err)

	target := cfg.Targets["backend"]
	require.NotNil(t, target)
	assert.Equal(t, "/repos/backend", target.Path)
	assert.Equal(t, []string{"services/api*"}, target.Patterns)
}

func TestYAMLParser_UnknownFieldRejected(t *testing.T) {
	ctx := testContext(t)
	data := []byte(`
targets: {}
bogus: true
`)

	_, err := (&config.YAMLParser{}).Parse(ctx, data)
	require.Error(t, err)
}

func TestHCLParser(t *testing.T) {
	ctx := testContext(t)
	data := []byte(`
target "frontend" {
  path             = "/repos/frontend"
  patterns         = ["libs/web*"]
  exclude_patterns = ["libs/web-legacy"]
}

target "docs" {
  path = "/repos/docs"
}
`)

	cfg, err := (&config.HCLParser{}).Parse(ctx, data)
	require.NoError(t, err)
	require.Len(t, cfg.Targets, 2)

	assert.Equal(t, "/repos/frontend", cfg.Targets["frontend"].Path)
	assert.Equal(t, []string{"libs/web*"}, cfg.Targets["frontend"].Patterns)
	assert.Empty(t, cfg.Targets["docs"].Patterns)
}

func TestConfig_TargetNames(t *testing.T) {
	cfg := config.New()
	cfg.Targets["zeta"] = &config.Target{Path: "/z"}
	cfg.Targets["alpha"] = &config.Target{Path: "/a"}
	cfg.Targets["mid"] = &config.Target{Path: "/m"}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, cfg.TargetNames())
}

func TestConfig_Validate(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	cfg.Targets["ok"] = &config.Target{Path: "/somewhere"}
	require.NoError(t, cfg.Validate())

	cfg.Targets["bad"] = &config.Target{}
	require.Error(t, cfg.Validate())
}
