// Package plan loads declarative task plans and applies them to a scheduler.
//
// A plan lists tasks with an urgency and the IDs they depend on. Plans can
// be written in YAML or JSON:
//
//	tasks:
//	  - id: build
//	    urgency: 5
//	  - id: test
//	    urgency: 3
//	    depends_on: [build]
//
// or in HCL:
//
//	task "build" {
//	  urgency = 5
//	}
//
//	task "test" {
//	  urgency    = 3
//	  depends_on = ["build"]
//	}
//
// Tasks are applied in file order, so file order decides urgency ties.
package plan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/triage/internal/errors"
	"github.com/Iron-Ham/triage/internal/scheduler"
)

// Format identifies a plan file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// Plan is an ordered list of task declarations.
type Plan struct {
	Tasks []Task `yaml:"tasks" json:"tasks"`
}

// Task is a single task declaration.
type Task struct {
	ID        string   `yaml:"id" json:"id"`
	Urgency   int      `yaml:"urgency" json:"urgency"`
	DependsOn []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", errors.Wrapf(errors.ErrUnsupportedFormat, "plan %s", path)
	}
}

// Load reads, decodes and validates the plan at path.
func Load(path string) (*Plan, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading plan file")
	}
	return Parse(data, format, path)
}

// Parse decodes and validates plan source. name is used in error messages.
func Parse(data []byte, format Format, name string) (*Plan, error) {
	var (
		p   *Plan
		err error
	)
	switch format {
	case FormatYAML, FormatJSON:
		p, err = decodeYAML(data)
	case FormatHCL:
		p, err = decodeHCL(data, name)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "format %q", format)
	}
	if err != nil {
		return nil, errors.NewPlanError("decode failed", err).WithFile(name)
	}

	if err := p.Validate(); err != nil {
		var planErr *errors.PlanError
		if errors.As(err, &planErr) {
			planErr.WithFile(name)
		}
		return nil, err
	}
	return p, nil
}

// Validate checks that every task has a non-empty, unique ID.
func (p *Plan) Validate() error {
	seen := make(map[string]bool, len(p.Tasks))
	for i, t := range p.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			return errors.NewPlanError("task has an empty id", errors.NewValidationError("id is required").WithField("tasks").WithValue(i))
		}
		if seen[t.ID] {
			return errors.NewPlanError("duplicate task id", nil).WithTask(t.ID)
		}
		seen[t.ID] = true
		for _, dep := range t.DependsOn {
			if strings.TrimSpace(dep) == "" {
				return errors.NewPlanError("empty dependency id", nil).WithTask(t.ID)
			}
		}
	}
	return nil
}

// Adder is the part of a scheduler a plan needs.
type Adder interface {
	Add(id string, urgency int, deps []string) scheduler.AddResult
}

// Applied pairs a task ID with what Add did with it.
type Applied struct {
	ID     string              `json:"id"`
	Result scheduler.AddResult `json:"result"`
}

// Apply adds every task to s in file order.
func (p *Plan) Apply(s Adder) []Applied {
	out := make([]Applied, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		out = append(out, Applied{ID: t.ID, Result: s.Add(t.ID, t.Urgency, t.DependsOn)})
	}
	return out
}

// IDs returns the declared task IDs in file order.
func (p *Plan) IDs() []string {
	ids := make([]string, len(p.Tasks))
	for i, t := range p.Tasks {
		ids[i] = t.ID
	}
	return ids
}
