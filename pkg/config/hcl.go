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
	"os"
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
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL. Rules are labeled blocks:
//
//	rule "no-utilize" {
//	  pattern     = "\\butilize\\b"
//	  replacement = "use"
//	}
//
// The env object exposes the process environment to expressions.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Language  string   `hcl:"language,optional"`
		SkipTags  []string `hcl:"skip_tags,optional"`
		MinLength int      `hcl:"min_length,optional"`
		Enable    []string `hcl:"enable,optional"`
		Disable   []string `hcl:"disable,optional"`
		Rules     []struct {
			ID           string `hcl:"id,label"`
			Description  string `hcl:"description,optional"`
			Pattern      string `hcl:"pattern"`
			Replacement  string `hcl:"replacement,optional"`
			IgnoreCase   bool   `hcl:"ignore_case,optional"`
			PreserveCase bool   `hcl:"preserve_case,optional"`
		} `hcl:"rule,block"`
		Grammar *struct {
			Enabled  bool   `hcl:"enabled,optional"`
			Endpoint string `hcl:"endpoint,optional"`
			Timeout  string `hcl:"timeout,optional"`
		} `hcl:"grammar,block"`
		Diff *struct {
			MaxLength int `hcl:"max_length,optional"`
			Context   int `hcl:"context,optional"`
		} `hcl:"diff,block"`
		Output *struct {
			Backup bool `hcl:"backup,optional"`
		} `hcl:"output,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Language:  hclCfg.Language,
		SkipTags:  hclCfg.SkipTags,
		MinLength: hclCfg.MinLength,
		Enable:    hclCfg.Enable,
		Disable:   hclCfg.Disable,
	}
	for _, r := range hclCfg.Rules {
		cfg.Rules = append(cfg.Rules, RuleConfig{
			ID:           r.ID,
			Description:  r.Description,
			Pattern:      r.Pattern,
			Replacement:  r.Replacement,
			IgnoreCase:   r.IgnoreCase,
			PreserveCase: r.PreserveCase,
		})
	}
	if hclCfg.Grammar != nil {
		cfg.Grammar = GrammarConfig{
			Enabled:  hclCfg.Grammar.Enabled,
			Endpoint: hclCfg.Grammar.Endpoint,
			Timeout:  hclCfg.Grammar.Timeout,
		}
	}
	if hclCfg.Diff != nil {
		cfg.Diff = DiffConfig{MaxLength: hclCfg.Diff.MaxLength, Context: hclCfg.Diff.Context}
	}
	if hclCfg.Output != nil {
		cfg.Output = OutputConfig{Backup: hclCfg.Output.Backup}
	}

	return cfg, nil
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}
