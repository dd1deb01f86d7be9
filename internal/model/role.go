package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of account kinds. The zero value is not a valid role.
type Role int

const (
	RoleUnknown Role = iota
	RoleStudent
	RoleLecturer
	RoleAdmin
)

var AllRoles = []Role{RoleStudent, RoleLecturer, RoleAdmin}

// String returns the value persisted in Users.role and carried in claims.
func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "SinhVien"
	case RoleLecturer:
		return "GiangVien"
	case RoleAdmin:
		return "Admin"
	case RoleUnknown:
		return ""
	}
	return ""
}

func (r Role) Valid() bool {
	return r != RoleUnknown && r.String() != ""
}

// ParseRole accepts both the stored names and their English aliases.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "sinhvien", "student":
		return RoleStudent, nil
	case "giangvien", "lecturer":
		return RoleLecturer, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", value)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
