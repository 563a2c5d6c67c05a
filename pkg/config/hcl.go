package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

// hclConfig mirrors Config with HCL block syntax:
//
//	target "frontend" {
//	  path     = "/repos/frontend"
//	  patterns = ["libs/web*"]
//	}
type hclConfig struct {
	Targets []hclTarget `hcl:"target,block"`
}

type hclTarget struct {
	Name            string   `hcl:"name,label"`
	Path            string   `hcl:"path"`
	Patterns        []string `hcl:"patterns,optional"`
	ExcludePatterns []string `hcl:"exclude_patterns,optional"`
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "arboribus.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := New()
	for _, t := range raw.Targets {
		cfg.Targets[t.Name] = &Target{
			Path:            t.Path,
			Patterns:        t.Patterns,
			ExcludePatterns: t.ExcludePatterns,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
