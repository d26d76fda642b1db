package policy

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

// Load reads a policy file from the given path. The format is determined by
// the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// Fields omitted from the file keep the Default(extension="") values, so a
// file only needs to name the shapes it restricts.
func Load(ctx context.Context, path string) (Policy, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading policy file")

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.Errorf("reading policy file: %w", err)
	}

	p := Default("")

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = loadJSON(data, &p)
	case ".yaml", ".yml":
		err = loadYAML(data, &p)
	case ".hcl":
		err = loadHCL(data, path, &p)
	default:
		return Policy{}, errors.Errorf("unsupported policy file extension %q", ext)
	}
	if err != nil {
		return Policy{}, err
	}

	if err := Validate(p); err != nil {
		return Policy{}, errors.Errorf("validating policy: %w", err)
	}
	return p, nil
}

func loadJSON(data []byte, p *Policy) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(p); err != nil {
		return errors.Errorf("parsing JSON: %w", err)
	}
	return nil
}

func loadYAML(data []byte, p *Policy) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(p); err != nil {
		return errors.Errorf("parsing YAML: %w", err)
	}
	return nil
}

func loadHCL(data []byte, filename string, p *Policy) error {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return errors.Errorf("parsing HCL: %s", diags.Error())
	}

	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	diags = gohcl.DecodeBody(hclFile.Body, ctx, p)
	if diags.HasErrors() {
		return errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return nil
}
