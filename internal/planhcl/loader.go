// Package planhcl loads plan documents written in HCL. It is one of the
// format-specific implementations of plan.Loader; everything beyond parsing
// and translation lives in the format-agnostic plan package.
//
// A plan is a single `plan { ... }` settings block plus any number of
// `block "<id>" { ... }` blocks. Block declaration order — within a file,
// and across files in sorted path order — is preserved as execution order.
package planhcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/plansim/internal/ctxlog"
	"github.com/vk/plansim/internal/fsutil"
	"github.com/vk/plansim/internal/plan"
)

// Loader is the HCL implementation of plan.Loader.
type Loader struct{}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of one .hcl file.
type fileRoot struct {
	Plan   *planBlock  `hcl:"plan,block"`
	Blocks []*hclBlock `hcl:"block,block"`
}

type planBlock struct {
	BirthDate string `hcl:"birth_date"`
	EndAge    int    `hcl:"end_age"`
	Init      string `hcl:"init,optional"`
}

type hclBlock struct {
	ID        string `hcl:"id,label"`
	StartDate string `hcl:"start_date"`
	EndDate   string `hcl:"end_date"`
	Frequency string `hcl:"frequency"`

	// Inputs stays a raw expression so both quoted and bare numeric values
	// decode; translation normalizes everything to the string form the
	// core expects.
	Inputs hcl.Expression `hcl:"inputs,optional"`

	Init      string   `hcl:"init,optional"`
	Execution string   `hcl:"execution,optional"`
	Exports   []string `hcl:"exports,optional"`
}

// Load parses every .hcl file reachable from the given paths, merges them,
// and translates the result into a validated plan.Document.
func (l *Loader) Load(ctx context.Context, paths ...string) (*plan.Document, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("discovering plan files under %s: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl plan files found in %v", paths)
	}
	logger.Debug("discovered plan files", "count", len(files))

	parser := hclparse.NewParser()
	var settings *planBlock
	var blocks []*hclBlock

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		if root.Plan != nil {
			if settings != nil {
				return nil, fmt.Errorf("%s: duplicate plan block (a plan has exactly one)", file)
			}
			settings = root.Plan
		}
		blocks = append(blocks, root.Blocks...)
	}
	if settings == nil {
		return nil, fmt.Errorf("no plan block found in %v", paths)
	}

	doc, err := translate(settings, blocks)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("plan loaded", "blocks", len(doc.Blocks))
	return doc, nil
}

var _ plan.Loader = (*Loader)(nil)

// inputs evaluates the inputs expression (no variables are in scope — plan
// files are data, not programs) and normalizes every value to a string.
// HCL numbers keep their source precision through the cty conversion.
func (h *hclBlock) inputs() (map[string]string, error) {
	if h.Inputs == nil {
		return nil, nil
	}
	value, diags := h.Inputs.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("block %q inputs: %w", h.ID, diags)
	}
	if value.IsNull() {
		return nil, nil
	}
	if !value.Type().IsObjectType() && !value.Type().IsMapType() {
		return nil, fmt.Errorf("block %q: inputs must be a map of name = value pairs", h.ID)
	}

	out := make(map[string]string, value.LengthInt())
	for name, v := range value.AsValueMap() {
		converted, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("block %q input %q: %w", h.ID, name, err)
		}
		if converted.IsNull() {
			out[name] = ""
			continue
		}
		out[name] = converted.AsString()
	}
	return out, nil
}
