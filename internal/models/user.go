package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role represents the closed set of application roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFullAccess Role = "full_access"
	RoleDagelijks  Role = "dagelijks_access"
	RoleReports    Role = "reports_access"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFullAccess, RoleDagelijks, RoleReports:
		return true
	}
	return false
}

// Permissions lists the screens a user may access.
type Permissions struct {
	Dagelijks     bool `json:"dagelijks"`
	Weekoverzicht bool `json:"weekoverzicht"`
	Statistieken  bool `json:"statistieken"`
	Rapporten     bool `json:"rapporten"`
	Students      bool `json:"students"`
	Audit         bool `json:"audit"`
}

// PermissionsForRole maps every role to its default permission set.
// The mapping is exhaustive; unknown roles get nothing.
func PermissionsForRole(role Role) Permissions {
	switch role {
	case RoleAdmin:
		return Permissions{
			Dagelijks:     true,
			Weekoverzicht: true,
			Statistieken:  true,
			Rapporten:     true,
			Students:      true,
			Audit:         true,
		}
	case RoleFullAccess:
		return Permissions{
			Dagelijks:     true,
			Weekoverzicht: true,
			Statistieken:  true,
			Rapporten:     true,
			Students:      true,
		}
	case RoleDagelijks:
		return Permissions{
			Dagelijks:     true,
			Weekoverzicht: true,
			Statistieken:  true,
			Rapporten:     true,
		}
	case RoleReports:
		return Permissions{
			Weekoverzicht: true,
			Statistieken:  true,
			Rapporten:     true,
		}
	}
	return Permissions{}
}

// PermissionOverrides stores an optional per-user permission override
// as a nullable JSONB column.
type PermissionOverrides struct {
	Perms *Permissions
}

// Value implements driver.Valuer.
func (o PermissionOverrides) Value() (driver.Value, error) {
	if o.Perms == nil {
		return nil, nil
	}
	return json.Marshal(o.Perms)
}

// Scan implements sql.Scanner.
func (o *PermissionOverrides) Scan(src interface{}) error {
	if src == nil {
		o.Perms = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported overrides column type %T", src)
	}

	var perms Permissions
	if err := json.Unmarshal(data, &perms); err != nil {
		return fmt.Errorf("decode permission overrides: %w", err)
	}
	o.Perms = &perms
	return nil
}

// MarshalJSON renders the override, or null when none is set.
func (o PermissionOverrides) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Perms)
}

// UnmarshalJSON accepts either null or a permission object.
func (o *PermissionOverrides) UnmarshalJSON(data []byte) error {
	o.Perms = nil
	if string(data) == "null" {
		return nil
	}
	var perms Permissions
	if err := json.Unmarshal(data, &perms); err != nil {
		return err
	}
	o.Perms = &perms
	return nil
}

// User represents an application user stored in the users table.
type User struct {
	ID           string              `db:"id" json:"id"`
	Username     string              `db:"username" json:"username"`
	PasswordHash string              `db:"password_hash" json:"-"`
	FullName     string              `db:"full_name" json:"full_name"`
	Role         Role                `db:"role" json:"role"`
	Overrides    PermissionOverrides `db:"overrides" json:"overrides"`
	Active       bool                `db:"active" json:"active"`
	LastLogin    *time.Time          `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// EffectivePermissions resolves the role defaults with per-user overrides.
func (u User) EffectivePermissions() Permissions {
	if u.Overrides.Perms != nil {
		return *u.Overrides.Perms
	}
	return PermissionsForRole(u.Role)
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *Role
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// CreateUserRequest is the payload for creating a user.
type CreateUserRequest struct {
	Username    string       `json:"username" validate:"required,min=3"`
	Password    string       `json:"password" validate:"required,min=6"`
	FullName    string       `json:"full_name" validate:"required"`
	Role        Role         `json:"role" validate:"required,oneof=admin full_access dagelijks_access reports_access"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

// UpdateUserRequest carries partial updates for a user.
type UpdateUserRequest struct {
	FullName    *string      `json:"full_name,omitempty"`
	Role        *Role        `json:"role,omitempty" validate:"omitempty,oneof=admin full_access dagelijks_access reports_access"`
	Password    *string      `json:"password,omitempty" validate:"omitempty,min=6"`
	Permissions *Permissions `json:"permissions,omitempty"`
	Active      *bool        `json:"active,omitempty"`
}
