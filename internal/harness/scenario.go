package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/roach88/enigma/internal/trace"
)

// Scenario is one conformance test: a machine setup, the operations to
// drive it with and the assertions on where it ends up.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Wiring is a built-in wiring set name or a path to a .cue wiring file.
	// Empty means the default set.
	Wiring string `yaml:"wiring,omitempty"`

	// Positions are the start positions, slowest rotor first.
	Positions string `yaml:"positions,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one machine operation. Exactly one of Press, Release, Click, Set
// and Type is set.
type Step struct {
	Press   string `yaml:"press,omitempty"`
	Release string `yaml:"release,omitempty"`
	Click   *int   `yaml:"click,omitempty"`
	Set     string `yaml:"set,omitempty"`
	Type    string `yaml:"type,omitempty"`

	// Expect is the lit lamp after a press, or the output of a type.
	Expect string `yaml:"expect,omitempty"`

	// Error is the expected error code. Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`
}

// Op names the operation of the step.
func (s Step) Op() string {
	switch {
	case s.Press != "":
		return "press"
	case s.Release != "":
		return "release"
	case s.Click != nil:
		return "click"
	case s.Set != "":
		return "set"
	case s.Type != "":
		return "type"
	default:
		return ""
	}
}

func (s Step) opCount() int {
	n := 0
	for _, set := range []bool{s.Press != "", s.Release != "", s.Click != nil, s.Set != "", s.Type != ""} {
		if set {
			n++
		}
	}
	return n
}

// Assertion validates the machine after the last step.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value is the expected positions, state or output.
	Value string `yaml:"value,omitempty"`

	// Letter is the lamp checked by lamp_on and lamp_off.
	Letter string `yaml:"letter,omitempty"`

	// Kind and Count are used by trace_count.
	Kind  string `yaml:"kind,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPositions  = "positions"
	AssertLampOn     = "lamp_on"
	AssertLampOff    = "lamp_off"
	AssertState      = "state"
	AssertOutput     = "output"
	AssertTraceCount = "trace_count"
)

// LoadScenario reads and parses a scenario YAML file.
// A relative .cue wiring path is resolved against the scenario's directory.
//
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(scenario.Wiring, ".cue") && !filepath.IsAbs(scenario.Wiring) {
		scenario.Wiring = filepath.Join(filepath.Dir(path), scenario.Wiring)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML with strict field validation, so a
// typo like "assertion:" is an error instead of a silently empty list.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted. A
// non-empty filter is a glob matched against the file name without extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s Step) error {
	switch s.opCount() {
	case 0:
		return fmt.Errorf("steps[%d]: one of press, release, click, set, type is required", index)
	case 1:
	default:
		return fmt.Errorf("steps[%d]: only one of press, release, click, set, type is allowed", index)
	}

	switch s.Op() {
	case "press":
		if utf8.RuneCountInString(s.Press) != 1 {
			return fmt.Errorf("steps[%d]: press takes a single letter, got %q", index, s.Press)
		}
		if s.Expect != "" && utf8.RuneCountInString(s.Expect) != 1 {
			return fmt.Errorf("steps[%d]: press expects a single lamp, got %q", index, s.Expect)
		}
	case "release":
		if utf8.RuneCountInString(s.Release) != 1 {
			return fmt.Errorf("steps[%d]: release takes a single letter, got %q", index, s.Release)
		}
	case "click", "set":
		if s.Expect != "" {
			return fmt.Errorf("steps[%d]: %s produces no output to expect", index, s.Op())
		}
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertPositions, AssertState:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertOutput:
		// An empty expected output is valid.
	case AssertLampOn, AssertLampOff:
		if utf8.RuneCountInString(a.Letter) != 1 {
			return fmt.Errorf("assertions[%d]: %s needs a single letter", index, a.Type)
		}
	case AssertTraceCount:
		if !trace.Kind(a.Kind).Valid() {
			return fmt.Errorf("assertions[%d]: unknown event kind %q for trace_count", index, a.Kind)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
