// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"slices"
)

// Role represents the player profile a user registers with. The set is closed.
type Role string

const (
	// RoleCorporateEmployee indicates an office worker persona.
	RoleCorporateEmployee Role = "corporate_employee"
	// RoleUniversityStudent indicates a student persona.
	RoleUniversityStudent Role = "university_student"
	// RoleITStaff indicates an IT support persona.
	RoleITStaff Role = "it_staff"
	// RoleIncidentResponder indicates a security operations persona.
	RoleIncidentResponder Role = "incident_responder"
	// RoleSecurityManager indicates a security leadership persona.
	RoleSecurityManager Role = "security_manager"
)

var allRoles = []Role{
	RoleCorporateEmployee,
	RoleUniversityStudent,
	RoleITStaff,
	RoleIncidentResponder,
	RoleSecurityManager,
}

// AllRoles returns every valid role in declaration order.
func AllRoles() []Role {
	return slices.Clone(allRoles)
}

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCorporateEmployee, RoleUniversityStudent, RoleITStaff, RoleIncidentResponder, RoleSecurityManager:
		return true
	default:
		return false
	}
}

// ParseRole converts a raw string into a Role, rejecting values outside the closed set.
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}

	return role, nil
}

// UnmarshalText rejects unknown roles while decoding JSON or config values.
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r), nil
}
