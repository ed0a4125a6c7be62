// Package stage holds the sales-pipeline configuration and the keyword
// stage detector.
package stage

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Stage is one configured phase of the sales process.
type Stage struct {
	Name          string   `yaml:"name"`
	Keywords      []string `yaml:"keywords"`
	WeightPercent float64  `yaml:"weight"`
}

// Pipeline is the ordered stage table. It is an explicit value passed into
// detection and aggregation, never a process-wide singleton, so multiple
// pipelines can run side by side.
type Pipeline struct {
	Stages []Stage `yaml:"stages"`
}

// LoadFile reads a pipeline definition from a YAML file.
func LoadFile(path string) (*Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "stage: read pipeline %s", path)
	}

	// The YAML has a top-level "pipeline" key.
	var wrapper struct {
		Pipeline Pipeline `yaml:"pipeline"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrapf(err, "stage: parse pipeline %s", path)
	}

	p := &wrapper.Pipeline
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks structural invariants: every stage needs a name and
// non-negative weight, and names must be unique. A weight sum other than
// 100 is NOT an error here; the engine reports raw totals and leaves that
// judgment to WeightSum callers.
func (p *Pipeline) Validate() error {
	var errs []string
	seen := make(map[string]bool)
	for i, s := range p.Stages {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("stage %d has no name", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Sprintf("duplicate stage name %q", name))
		}
		seen[name] = true
		if s.WeightPercent < 0 {
			errs = append(errs, fmt.Sprintf("stage %q has negative weight", name))
		}
	}
	if len(errs) > 0 {
		return eris.New("stage: invalid pipeline: " + strings.Join(errs, "; "))
	}
	return nil
}

// WeightSum returns the sum of all stage weights. The canonical
// configuration sums to 100, but that is the caller's invariant to check
// before trusting output for payroll.
func (p *Pipeline) WeightSum() float64 {
	var sum float64
	for _, s := range p.Stages {
		sum += s.WeightPercent
	}
	return sum
}

// Weight returns the configured weight for a stage name, 0 for unknown
// stages. Zero-weight stages are valid; they simply contribute nothing.
func (p *Pipeline) Weight(name string) float64 {
	for _, s := range p.Stages {
		if s.Name == name {
			return s.WeightPercent
		}
	}
	return 0
}

// Default returns the canonical five-stage pipeline used when no config
// file is supplied. Weights sum to 100.
func Default() *Pipeline {
	return &Pipeline{Stages: []Stage{
		{Name: "Discovery", WeightPercent: 20, Keywords: []string{
			"intro", "introduction", "discovery", "first call", "nice to meet",
		}},
		{Name: "Qualification", WeightPercent: 15, Keywords: []string{
			"budget", "timeline", "decision maker", "requirements", "use case",
		}},
		{Name: "Demo", WeightPercent: 20, Keywords: []string{
			"demo", "walkthrough", "trial", "sandbox", "proof of concept",
		}},
		{Name: "Negotiation", WeightPercent: 25, Keywords: []string{
			"pricing", "quote", "discount", "contract", "terms", "redline",
		}},
		{Name: "Closing", WeightPercent: 20, Keywords: []string{
			"signed", "signature", "closed won", "invoice", "kickoff",
		}},
	}}
}
