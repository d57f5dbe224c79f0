package plan

import (
	"bytes"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// decodeYAML decodes YAML or JSON. Unknown keys are rejected so typos such
// as "depends" do not silently drop dependencies.
func decodeYAML(data []byte) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		// An empty document decodes to EOF; treat it as an empty plan.
		if len(bytes.TrimSpace(data)) == 0 {
			return &p, nil
		}
		return nil, err
	}
	return &p, nil
}

// hclPlanFile is the top-level structure of an HCL plan.
type hclPlanFile struct {
	Tasks []*hclTask `hcl:"task,block"`
}

type hclTask struct {
	ID        string   `hcl:"id,label"`
	Urgency   int      `hcl:"urgency,optional"`
	DependsOn []string `hcl:"depends_on,optional"`
}

// Urgency levels HCL plans can refer to by name, e.g. `urgency = level.high`.
var urgencyLevels = map[string]int64{
	"low":      1,
	"normal":   5,
	"high":     10,
	"critical": 20,
}

func newEvalContext() *hcl.EvalContext {
	levels := make(map[string]cty.Value, len(urgencyLevels))
	for name, v := range urgencyLevels {
		levels[name] = cty.NumberIntVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"level": cty.ObjectVal(levels),
		},
	}
}

func decodeHCL(data []byte, filename string) (*Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %w", diags)
	}

	var parsed hclPlanFile
	diags = gohcl.DecodeBody(file.Body, newEvalContext(), &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %w", diags)
	}

	p := &Plan{Tasks: make([]Task, 0, len(parsed.Tasks))}
	for _, t := range parsed.Tasks {
		p.Tasks = append(p.Tasks, Task{ID: t.ID, Urgency: t.Urgency, DependsOn: t.DependsOn})
	}
	return p, nil
}
