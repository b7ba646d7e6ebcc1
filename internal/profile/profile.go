// Package profile compiles CUE service profiles.
//
// A profile declares what the management layer knows about a service:
// its configurable properties, each with a type, an optional set of
// allowed values, and a default. Example:
//
//	service: snmp: {
//		description: "SNMP agent"
//		property: {
//			enable: {type: "bool", default: "no"}
//			sftp_log_level: {
//				type:    "string"
//				enum:    ["QUIET", "FATAL", "ERROR", "INFO", "DEBUG"]
//				default: "INFO"
//			}
//		}
//	}
//
// The local manager seeds each service's property map from the profile
// defaults and rejects writes that violate the declared type or enum.
package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidTypes defines the allowed property type strings.
var ValidTypes = map[string]bool{
	"string": true,
	"int":    true,
	"bool":   true,
}

// boolValues are the accepted spellings for bool properties. Service
// rc-style configuration traditionally uses yes/no alongside the JSON
// spellings.
var boolValues = map[string]bool{
	"yes": true, "no": true,
	"true": true, "false": true,
}

// Property describes one configurable property of a service.
type Property struct {
	// Name is the property key, e.g. "enable" or "sftp_log_level".
	Name string

	// Type is one of "string", "int", "bool".
	Type string

	// Enum, when non-empty, restricts the property to the listed
	// values. Only meaningful for string properties.
	Enum []string

	// Default is the value the property holds before anything writes
	// it. Must itself satisfy Type and Enum.
	Default string
}

// ValidateValue checks a candidate value against the property's type
// and enum constraints.
func (p Property) ValidateValue(v string) error {
	switch p.Type {
	case "int":
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return fmt.Errorf("property %q requires an integer, got %q", p.Name, v)
		}
	case "bool":
		if !boolValues[v] {
			return fmt.Errorf("property %q requires yes/no or true/false, got %q", p.Name, v)
		}
	case "string":
		// Any string is type-valid; enum is checked below.
	default:
		return fmt.Errorf("property %q has unknown type %q", p.Name, p.Type)
	}

	if len(p.Enum) > 0 {
		for _, allowed := range p.Enum {
			if v == allowed {
				return nil
			}
		}
		return fmt.Errorf("property %q must be one of [%s], got %q",
			p.Name, strings.Join(p.Enum, ", "), v)
	}
	return nil
}

// Service is a compiled service profile.
type Service struct {
	// Name is the service identifier, e.g. "snmp".
	Name string

	// Description explains what the service is. Optional.
	Description string

	// Properties lists the configurable properties in declaration
	// order.
	Properties []Property
}

// Property looks a property up by name.
func (s Service) Property(name string) (Property, bool) {
	for _, p := range s.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// Defaults returns the initial property map for a fresh service.
func (s Service) Defaults() map[string]string {
	m := make(map[string]string, len(s.Properties))
	for _, p := range s.Properties {
		m[p.Name] = p.Default
	}
	return m
}

// Validate checks the compiled profile for internal consistency:
// known types, defaults that satisfy their own constraints, unique
// property names.
func (s Service) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("service name is required")
	}
	seen := make(map[string]bool, len(s.Properties))
	for i, p := range s.Properties {
		if p.Name == "" {
			return fmt.Errorf("service %q: property[%d]: name is required", s.Name, i)
		}
		if seen[p.Name] {
			return fmt.Errorf("service %q: duplicate property %q", s.Name, p.Name)
		}
		seen[p.Name] = true
		if !ValidTypes[p.Type] {
			return fmt.Errorf("service %q: property %q: invalid type %q, must be one of: string, int, bool",
				s.Name, p.Name, p.Type)
		}
		if p.Default != "" {
			if err := p.ValidateValue(p.Default); err != nil {
				return fmt.Errorf("service %q: default: %w", s.Name, err)
			}
		}
	}
	return nil
}
