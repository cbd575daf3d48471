package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: a session of ledger
// operations with per-step expectations and final-state assertions.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy is an optional path to a CUE policy file, relative to the
	// scenario file. Empty means the default policy.
	Policy string `yaml:"policy,omitempty"`

	// Steps is the session, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final ledger state after all steps ran.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the scenario file's directory, for resolving Policy.
	dir string
}

// Step is one ledger operation. Op selects the operation; the other
// fields parameterize it. Supported ops: mint, author, transfer,
// approve, compose, transfer_poem.
type Step struct {
	Op string `yaml:"op"`

	// As is the acting participant.
	As string `yaml:"as"`

	// mint
	Count   int   `yaml:"count,omitempty"`
	Payment int64 `yaml:"payment,omitempty"`

	// author, transfer, approve
	Verse int64  `yaml:"verse,omitempty"`
	Text  string `yaml:"text,omitempty"`

	// transfer, transfer_poem
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// approve
	Delegate string `yaml:"delegate,omitempty"`

	// compose
	Verses []int64 `yaml:"verses,omitempty"`
	Title  string  `yaml:"title,omitempty"`

	// transfer_poem
	Poem int64 `yaml:"poem,omitempty"`

	// Expect validates the step outcome. Nil means the step must
	// simply succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies a step's expected outcome. Error names a rejection
// code; when set, the step must fail with exactly that code and the
// other fields are ignored.
type Expect struct {
	Error string  `yaml:"error,omitempty"`
	IDs   []int64 `yaml:"ids,omitempty"`
	Poem  int64   `yaml:"poem,omitempty"`
}

// Assertion validates one fact about the final state. Type selects
// the check: verse_owner, verse_text, verse_locked, verse_authored,
// poem_owner, poem_title, poem_verses, total_verses, total_poems.
type Assertion struct {
	Type string `yaml:"type"`

	Verse  int64   `yaml:"verse,omitempty"`
	Poem   int64   `yaml:"poem,omitempty"`
	Owner  string  `yaml:"owner,omitempty"`
	Text   string  `yaml:"text,omitempty"`
	Title  string  `yaml:"title,omitempty"`
	Verses []int64 `yaml:"verses,omitempty"`
	Locked *bool   `yaml:"locked,omitempty"`
	Count  int64   `yaml:"count,omitempty"`
}

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	s.dir = filepath.Dir(path)

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", s.Name)
	}
	for i, step := range s.Steps {
		switch step.Op {
		case "mint", "author", "transfer", "approve", "compose", "transfer_poem":
		case "":
			return fmt.Errorf("step %d has no op", i+1)
		default:
			return fmt.Errorf("step %d has unknown op %q", i+1, step.Op)
		}
		if step.As == "" {
			return fmt.Errorf("step %d (%s) has no actor", i+1, step.Op)
		}
	}
	for i, a := range s.Assertions {
		switch a.Type {
		case "verse_owner", "verse_text", "verse_locked", "verse_authored",
			"poem_owner", "poem_title", "poem_verses",
			"total_verses", "total_poems":
		case "":
			return fmt.Errorf("assertion %d has no type", i+1)
		default:
			return fmt.Errorf("assertion %d has unknown type %q", i+1, a.Type)
		}
	}
	return nil
}

// policyPath resolves the scenario's policy file path, empty when the
// scenario uses the default policy.
func (s *Scenario) policyPath() string {
	if s.Policy == "" {
		return ""
	}
	return filepath.Join(s.dir, s.Policy)
}
