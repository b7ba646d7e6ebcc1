package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ordinaryegi/svcheck/internal/svc"
)

// Scenario is a declarative fixture for one test subject: the service
// it exercises, the properties to snapshot and restore, and the
// ordered steps of the create phase (plus an optional stress step list
// for the hard track).
type Scenario struct {
	// Subject uniquely identifies the test subject, e.g. "service".
	Subject string `yaml:"subject"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Service is the managed service every step targets.
	Service string `yaml:"service"`

	// Snapshot lists property names captured before the steps run and
	// restored best-effort afterwards.
	Snapshot []string `yaml:"snapshot,omitempty"`

	// Steps is the create-phase sequence: command, then assertion.
	Steps []Step `yaml:"steps"`

	// Hard, when non-empty, is the stress sequence run under the
	// hard_create phase with its own snapshot/restore pass.
	Hard []Step `yaml:"hard,omitempty"`

	// RunToken pins the run token for deterministic golden
	// comparison. Empty means a fresh UUIDv7 per run.
	RunToken string `yaml:"run_token,omitempty"`
}

// Step modes. Wait discards the command's value; capture retains it.
const (
	ModeWait    = "wait"
	ModeCapture = "capture"
)

// Step actions, matching the svc.Op variants.
const (
	ActionStart     = "start"
	ActionStop      = "stop"
	ActionConfigGet = "config_get"
	ActionConfigSet = "config_set"
	ActionStatusGet = "status_get"
)

// Step is one command plus the assertion that consumes its outcome.
type Step struct {
	// Action is one of start, stop, config_get, config_set,
	// status_get.
	Action string `yaml:"action"`

	// Property names the configuration property for config_get and
	// config_set.
	Property string `yaml:"property,omitempty"`

	// Value is the new property value for config_set.
	Value string `yaml:"value,omitempty"`

	// Attribute names the runtime attribute for status_get, e.g.
	// "pid".
	Attribute string `yaml:"attribute,omitempty"`

	// Mode selects fire-and-wait (default) or fire-and-capture.
	Mode string `yaml:"mode,omitempty"`

	// Tag is the test-case identifier for the paired assertion.
	Tag string `yaml:"tag"`

	// FailMessage is recorded verbatim when the assertion fails.
	FailMessage string `yaml:"fail_message"`
}

// action converts the step to a typed svc.Action.
func (s Step) action() (svc.Action, error) {
	switch s.Action {
	case ActionStart:
		return svc.Start(), nil
	case ActionStop:
		return svc.Stop(), nil
	case ActionConfigGet:
		return svc.ConfigGet(s.Property), nil
	case ActionConfigSet:
		return svc.ConfigSet(s.Property, s.Value), nil
	case ActionStatusGet:
		return svc.StatusGet(s.Attribute), nil
	default:
		return svc.Action{}, fmt.Errorf("unknown action %q", s.Action)
	}
}

// LoadScenario reads and parses a scenario YAML file. Returns an error
// if the file is missing, malformed, contains unknown fields (typos),
// or fails field validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks required fields.
func validateScenario(s *Scenario) error {
	if s.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if s.Service == "" {
		return fmt.Errorf("service is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, prop := range s.Snapshot {
		if prop == "" {
			return fmt.Errorf("snapshot[%d]: property name must be non-empty", i)
		}
	}
	for i, step := range s.Steps {
		if err := validateStep(&step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	for i, step := range s.Hard {
		if err := validateStep(&step); err != nil {
			return fmt.Errorf("hard[%d]: %w", i, err)
		}
	}
	return nil
}

// validateStep checks one step's fields against its action.
func validateStep(s *Step) error {
	switch s.Action {
	case ActionStart, ActionStop:
	case ActionConfigGet:
		if s.Property == "" {
			return fmt.Errorf("property is required for config_get")
		}
	case ActionConfigSet:
		if s.Property == "" {
			return fmt.Errorf("property is required for config_set")
		}
	case ActionStatusGet:
		if s.Attribute == "" {
			return fmt.Errorf("attribute is required for status_get")
		}
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}

	switch s.Mode {
	case "", ModeWait, ModeCapture:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", s.Mode, ModeWait, ModeCapture)
	}

	if s.Tag == "" {
		return fmt.Errorf("tag is required")
	}
	if s.FailMessage == "" {
		return fmt.Errorf("fail_message is required")
	}
	return nil
}
