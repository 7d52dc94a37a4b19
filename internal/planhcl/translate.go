package planhcl

import (
	"fmt"

	"github.com/vk/plansim/internal/plan"
	"github.com/vk/plansim/internal/schedule"
)

// translate maps the decoded HCL forms onto the format-agnostic document
// model, parsing dates and frequencies along the way.
func translate(settings *planBlock, blocks []*hclBlock) (*plan.Document, error) {
	birth, err := schedule.ParseDate(settings.BirthDate)
	if err != nil {
		return nil, fmt.Errorf("plan birth_date: %w", err)
	}

	doc := &plan.Document{
		InitProgram: settings.Init,
		BirthDate:   birth,
		EndAge:      settings.EndAge,
	}

	for _, h := range blocks {
		b, err := translateBlock(h)
		if err != nil {
			return nil, err
		}
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, nil
}

func translateBlock(h *hclBlock) (*plan.Block, error) {
	start, err := schedule.ParseDate(h.StartDate)
	if err != nil {
		return nil, fmt.Errorf("block %q start_date: %w", h.ID, err)
	}
	end, err := schedule.ParseDate(h.EndDate)
	if err != nil {
		return nil, fmt.Errorf("block %q end_date: %w", h.ID, err)
	}
	freq, err := schedule.ParseFrequency(h.Frequency)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", h.ID, err)
	}
	inputs, err := h.inputs()
	if err != nil {
		return nil, err
	}

	return &plan.Block{
		ID:          h.ID,
		Schedule:    schedule.Schedule{Start: start, End: end, Freq: freq},
		Inputs:      inputs,
		InitProgram: h.Init,
		ExecProgram: h.Execution,
		Exports:     h.Exports,
	}, nil
}
