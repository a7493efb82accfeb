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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// fileSignature is the on-disk form of Signature, every field optional
type fileSignature struct {
	Pattern        *string `json:"pattern,omitempty" yaml:"pattern,omitempty" hcl:"pattern,optional"`
	Replacement    *string `json:"replacement,omitempty" yaml:"replacement,omitempty" hcl:"replacement,optional"`
	MigratedMarker *string `json:"migrated_marker,omitempty" yaml:"migrated_marker,omitempty" hcl:"migrated_marker,optional"`
	LegacyMarker   *string `json:"legacy_marker,omitempty" yaml:"legacy_marker,omitempty" hcl:"legacy_marker,optional"`
}

// fileConfig is the on-disk form of Config. Unset fields keep their defaults.
type fileConfig struct {
	BaseDir        *string        `json:"base_dir,omitempty" yaml:"base_dir,omitempty" hcl:"base_dir,optional"`
	SearchDirs     []string       `json:"search_dirs,omitempty" yaml:"search_dirs,omitempty" hcl:"search_dirs,optional"`
	Targets        []string       `json:"targets,omitempty" yaml:"targets,omitempty" hcl:"targets,optional"`
	IgnorePatterns []string       `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty" hcl:"ignore_patterns,optional"`
	Backup         *bool          `json:"backup,omitempty" yaml:"backup,omitempty" hcl:"backup,optional"`
	Signature      *fileSignature `json:"signature,omitempty" yaml:"signature,omitempty" hcl:"signature,block"`
	Tokens         []TokenRule    `json:"tokens,omitempty" yaml:"tokens,omitempty" hcl:"token,block"`
}

// LoadConfig loads a configuration file from the given path, layers it over Default
// and validates the result. The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	cfg, err := ReadConfig(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// ReadConfig is LoadConfig without validation, for callers that change the
// result before validating it themselves
func ReadConfig(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var fc *fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		fc, err = loadJSON(data)
	case ".yaml", ".yml":
		fc, err = loadYAML(data)
	case ".hcl":
		fc, err = loadHCL(data, path)
	default:
		return nil, errors.Errorf("unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	cfg := fc.merge(Default())
	cfg.location = path
	return cfg, nil
}

// merge applies the fields set in the file onto base
func (fc *fileConfig) merge(base *Config) *Config {
	if fc.BaseDir != nil {
		base.BaseDir = *fc.BaseDir
	}
	if len(fc.SearchDirs) > 0 {
		base.SearchDirs = fc.SearchDirs
	}
	if len(fc.Targets) > 0 {
		base.Targets = fc.Targets
	}
	if len(fc.IgnorePatterns) > 0 {
		base.IgnorePatterns = fc.IgnorePatterns
	}
	if fc.Backup != nil {
		base.Backup = *fc.Backup
	}
	if len(fc.Tokens) > 0 {
		base.Tokens = fc.Tokens
	}
	if sig := fc.Signature; sig != nil {
		if sig.Pattern != nil {
			base.Signature.Pattern = *sig.Pattern
		}
		if sig.Replacement != nil {
			base.Signature.Replacement = *sig.Replacement
		}
		if sig.MigratedMarker != nil {
			base.Signature.MigratedMarker = *sig.MigratedMarker
		}
		if sig.LegacyMarker != nil {
			base.Signature.LegacyMarker = *sig.LegacyMarker
		}
	}
	return base
}

// loadJSON loads a configuration from JSON data
func loadJSON(data []byte) (*fileConfig, error) {
	var fc fileConfig
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&fc); err != nil {
		return nil, errors.Errorf("parsing JSON: %w", err)
	}
	return &fc, nil
}

// loadYAML loads a configuration from YAML data
func loadYAML(data []byte) (*fileConfig, error) {
	var fc fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&fc); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &fc, nil
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*fileConfig, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// default_* variables let a file refer to the built-in values
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_base_dir":    cty.StringVal(DefaultBaseDir),
			"default_search_dirs": stringList(DefaultSearchDirs),
			"default_targets":     stringList(DefaultTargets),
		},
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &fc)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	return &fc, nil
}

func stringList(values []string) cty.Value {
	vals := make([]cty.Value, 0, len(values))
	for _, v := range values {
		vals = append(vals, cty.StringVal(v))
	}
	return cty.ListVal(vals)
}
