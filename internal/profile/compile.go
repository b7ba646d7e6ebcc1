package profile

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileService parses a CUE value into a Service profile.
// Uses the CUE SDK's Go API directly (not a CLI subprocess).
//
// The CUE value should be the service struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`service: snmp: { ... }`)
//	svc, err := CompileService(v.LookupPath(cue.ParsePath("service.snmp")))
func CompileService(v cue.Value) (*Service, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	svc := &Service{}

	// The service name is the struct label (the last path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		svc.Name = labels[len(labels)-1].String()
	}

	// description is optional.
	descVal := v.LookupPath(cue.ParsePath("description"))
	if descVal.Exists() {
		desc, err := descVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		svc.Description = desc
	}

	props, err := parseProperties(v)
	if err != nil {
		return nil, err
	}
	svc.Properties = props

	if err := svc.Validate(); err != nil {
		return nil, &CompileError{
			Field:   "service." + svc.Name,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return svc, nil
}

// parseProperties extracts property definitions from the profile.
func parseProperties(v cue.Value) ([]Property, error) {
	var props []Property

	propVal := v.LookupPath(cue.ParsePath("property"))
	if !propVal.Exists() {
		// A service without properties is legal: it still has the
		// lifecycle surface (start/stop/status).
		return props, nil
	}

	iter, err := propVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		prop := Property{Name: iter.Label()}
		pv := iter.Value()

		// type is required.
		typeVal := pv.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("property.%s.type", prop.Name),
				Message: "type is required",
				Pos:     pv.Pos(),
			}
		}
		typeName, err := typeVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		prop.Type = typeName

		// enum is optional.
		enumVal := pv.LookupPath(cue.ParsePath("enum"))
		if enumVal.Exists() {
			enumIter, err := enumVal.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for enumIter.Next() {
				s, err := enumIter.Value().String()
				if err != nil {
					return nil, formatCUEError(err)
				}
				prop.Enum = append(prop.Enum, s)
			}
		}

		// default is optional.
		defVal := pv.LookupPath(cue.ParsePath("default"))
		if defVal.Exists() {
			s, err := defVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			prop.Default = s
		}

		props = append(props, prop)
	}

	return props, nil
}

// CompileError represents a profile compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
