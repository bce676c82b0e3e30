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

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// defaults exposes the built-in roots, e.g. root = "${defaults.source_root}/pages"
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"defaults": cty.ObjectVal(map[string]cty.Value{
				"root":        cty.StringVal(Default().Root),
				"source_root": cty.StringVal(Default().SourceRoot),
			}),
		},
	}

	type hclConfig struct {
		Root       *string  `hcl:"root,optional"`
		SourceRoot *string  `hcl:"source_root,optional"`
		Extensions []string `hcl:"extensions,optional"`
		Ignore     []string `hcl:"ignore,optional"`
		Marker     *string  `hcl:"marker,optional"`
		Client     *struct {
			Receiver *string `hcl:"receiver,optional"`
			APIName  *string `hcl:"api_name,optional"`
		} `hcl:"client,block"`
		Imports *struct {
			Factory       *string `hcl:"factory,optional"`
			FactoryModule *string `hcl:"factory_module,optional"`
			TargetModule  *string `hcl:"target_module,optional"`
		} `hcl:"imports,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:       deref(hclCfg.Root),
		SourceRoot: deref(hclCfg.SourceRoot),
		Extensions: hclCfg.Extensions,
		Ignore:     hclCfg.Ignore,
		Marker:     deref(hclCfg.Marker),
	}
	if hclCfg.Client != nil {
		cfg.Receiver = deref(hclCfg.Client.Receiver)
		cfg.APIName = deref(hclCfg.Client.APIName)
	}
	if hclCfg.Imports != nil {
		cfg.Factory = deref(hclCfg.Imports.Factory)
		cfg.FactoryModule = deref(hclCfg.Imports.FactoryModule)
		cfg.TargetModule = deref(hclCfg.Imports.TargetModule)
	}

	return cfg, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
