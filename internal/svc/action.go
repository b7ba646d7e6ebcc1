package svc

import "fmt"

// Op identifies the management operation an Action performs.
type Op int

const (
	// OpStart starts the service and blocks until the management layer
	// reports the service running.
	OpStart Op = iota

	// OpStop stops the service and blocks until it has shut down.
	OpStop

	// OpConfigGet reads a named configuration property.
	OpConfigGet

	// OpConfigSet writes a named configuration property.
	OpConfigSet

	// OpStatusGet reads a derived runtime attribute, e.g. "pid".
	OpStatusGet
)

// String returns the operation name as it appears in scenario files
// and diagnostics.
func (op Op) String() string {
	switch op {
	case OpStart:
		return "start"
	case OpStop:
		return "stop"
	case OpConfigGet:
		return "config_get"
	case OpConfigSet:
		return "config_set"
	case OpStatusGet:
		return "status_get"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// Action is a single typed administrative operation. The executor never
// parses free-form command text; callers construct Actions through the
// constructors below so that each variant carries exactly the operands
// it needs.
type Action struct {
	Op Op

	// Property names the configuration property for OpConfigGet and
	// OpConfigSet.
	Property string

	// Value is the new property value for OpConfigSet.
	Value string

	// Attribute names the runtime attribute for OpStatusGet.
	Attribute string
}

// Start returns the action that starts a service.
func Start() Action {
	return Action{Op: OpStart}
}

// Stop returns the action that stops a service.
func Stop() Action {
	return Action{Op: OpStop}
}

// ConfigGet returns the action that reads the named property.
func ConfigGet(property string) Action {
	return Action{Op: OpConfigGet, Property: property}
}

// ConfigSet returns the action that sets the named property.
func ConfigSet(property, value string) Action {
	return Action{Op: OpConfigSet, Property: property, Value: value}
}

// StatusGet returns the action that reads the named runtime attribute.
func StatusGet(attribute string) Action {
	return Action{Op: OpStatusGet, Attribute: attribute}
}

// String renders the action for logs and diagnostics.
func (a Action) String() string {
	switch a.Op {
	case OpConfigGet:
		return fmt.Sprintf("config_get %s", a.Property)
	case OpConfigSet:
		return fmt.Sprintf("config_set %s=%s", a.Property, a.Value)
	case OpStatusGet:
		return fmt.Sprintf("status_get %s", a.Attribute)
	default:
		return a.Op.String()
	}
}

// validate checks that the action carries the operands its operation
// requires. The executor calls this before touching the manager so a
// malformed action degrades to a failure outcome instead of reaching
// the management layer.
func (a Action) validate() error {
	switch a.Op {
	case OpStart, OpStop:
		return nil
	case OpConfigGet:
		if a.Property == "" {
			return fmt.Errorf("config_get requires a property name")
		}
		return nil
	case OpConfigSet:
		if a.Property == "" {
			return fmt.Errorf("config_set requires a property name")
		}
		return nil
	case OpStatusGet:
		if a.Attribute == "" {
			return fmt.Errorf("status_get requires an attribute name")
		}
		return nil
	default:
		return fmt.Errorf("unknown operation %d", int(a.Op))
	}
}
