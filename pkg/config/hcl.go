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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/apifix/pkg/text"
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
//
// The built-in rule is exposed as the variables default_pattern and
// default_replacement so a config can extend it without copying the regex.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	def := text.DefaultRule()
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_pattern":     cty.StringVal(def.Pattern),
			"default_replacement": cty.StringVal(def.Template),
			"default_include":     cty.StringVal(DefaultInclude),
		},
	}

	type hclConfig struct {
		Root               string   `hcl:"root,optional"`
		Include            string   `hcl:"include,optional"`
		Ignore             []string `hcl:"ignore,optional"`
		DisableDefaultRule bool     `hcl:"disable_default_rule,optional"`
		Rules              []struct {
			Name        string `hcl:"name,label"`
			Pattern     string `hcl:"pattern"`
			Replacement string `hcl:"replacement"`
			Files       string `hcl:"files,optional"`
		} `hcl:"rule,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		Root:               hclCfg.Root,
		Include:            hclCfg.Include,
		Ignore:             hclCfg.Ignore,
		DisableDefaultRule: hclCfg.DisableDefaultRule,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, Rule{
			Name:        r.Name,
			Pattern:     r.Pattern,
			Replacement: r.Replacement,
			Files:       r.Files,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
