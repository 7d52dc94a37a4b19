// Package planyaml loads plan documents written in YAML, for plans exported
// by external tooling. It mirrors planhcl: parse, translate to the
// format-agnostic model, validate. Block order follows the `blocks` list,
// with files merged in sorted path order.
package planyaml

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/plansim/internal/ctxlog"
	"github.com/vk/plansim/internal/fsutil"
	"github.com/vk/plansim/internal/plan"
	"github.com/vk/plansim/internal/schedule"
)

// Loader is the YAML implementation of plan.Loader.
type Loader struct{}

// NewLoader creates a new YAML plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileRoot struct {
	Plan   *planSection `yaml:"plan"`
	Blocks []*yamlBlock `yaml:"blocks"`
}

type planSection struct {
	BirthDate string `yaml:"birth_date"`
	EndAge    int    `yaml:"end_age"`
	Init      string `yaml:"init"`
}

type yamlBlock struct {
	ID        string `yaml:"id"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Frequency string `yaml:"frequency"`

	// Inputs tolerate unquoted numeric scalars; the scalar's source text is
	// kept as the string form the core expects.
	Inputs map[string]scalarString `yaml:"inputs"`

	Init      string   `yaml:"init"`
	Execution string   `yaml:"execution"`
	Exports   []string `yaml:"exports"`
}

// scalarString decodes any YAML scalar as its literal text, so
// `amount: 2500` and `amount: "2500"` are the same input.
type scalarString string

func (s *scalarString) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: input value must be a scalar", node.Line)
	}
	*s = scalarString(node.Value)
	return nil
}

// Load parses every .yaml/.yml file reachable from the given paths, merges
// them, and translates the result into a validated plan.Document.
func (l *Loader) Load(ctx context.Context, paths ...string) (*plan.Document, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".yaml", ".yml")
		if err != nil {
			return nil, fmt.Errorf("discovering plan files under %s: %w", path, err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .yaml plan files found in %v", paths)
	}
	logger.Debug("discovered plan files", "count", len(files))

	var settings *planSection
	var blocks []*yamlBlock

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		var root fileRoot
		if err := yaml.Unmarshal(raw, &root); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", file, err)
		}
		if root.Plan != nil {
			if settings != nil {
				return nil, fmt.Errorf("%s: duplicate plan section (a plan has exactly one)", file)
			}
			settings = root.Plan
		}
		blocks = append(blocks, root.Blocks...)
	}
	if settings == nil {
		return nil, fmt.Errorf("no plan section found in %v", paths)
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

func translate(settings *planSection, blocks []*yamlBlock) (*plan.Document, error) {
	birth, err := schedule.ParseDate(settings.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("plan birth_date: %w", err)
	}

	doc := &plan.Document{
		InitProgram: settings.Init,
		BirthDate:   birth,
		EndAge:      settings.EndAge,
	}
	for _, y := range blocks {
		b, err := translateBlock(y)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

func translateBlock(y *yamlBlock) (*plan.Block, error) {
	start, err := schedule.ParseDate(y.StartDate)
	if err != nil {
		return nil, fmt.Errorf("block %q start_date: %w", y.ID, err)
	}
	end, err := schedule.ParseDate(y.EndDate)
	if err != nil {
		return nil, fmt.Errorf("block %q end_date: %w", y.ID, err)
	}
	freq, err := schedule.ParseFrequency(y.Frequency)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", y.ID, err)
	}

	var inputs map[string]string
	if len(y.Inputs) > 0 {
		inputs = make(map[string]string, len(y.Inputs))
		for name, value := range y.Inputs {
			inputs[name] = string(value)
		}
	}

	return &plan.Block{
		ID:          y.ID,
		Schedule:    schedule.Schedule{Start: start, End: end, Freq: freq},
		Inputs:      inputs,
		InitProgram: y.Init,
		ExecProgram: y.Execution,
		Exports:     y.Exports,
	}, nil
}
