package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsForRole(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want Permissions
	}{
		{
			name: "admin gets everything",
			role: RoleAdmin,
			want: Permissions{
				Dagelijks:     true,
				Weekoverzicht: true,
				Statistieken:  true,
				Rapporten:     true,
				Students:      true,
				Audit:         true,
			},
		},
		{
			name: "full access misses only audit",
			role: RoleFullAccess,
			want: Permissions{
				Dagelijks:     true,
				Weekoverzicht: true,
				Statistieken:  true,
				Rapporten:     true,
				Students:      true,
			},
		},
		{
			name: "dagelijks covers registration and the report screens",
			role: RoleDagelijks,
			want: Permissions{
				Dagelijks:     true,
				Weekoverzicht: true,
				Statistieken:  true,
				Rapporten:     true,
			},
		},
		{
			name: "reports is read-only reporting",
			role: RoleReports,
			want: Permissions{
				Weekoverzicht: true,
				Statistieken:  true,
				Rapporten:     true,
			},
		},
		{
			name: "unknown role gets nothing",
			role: Role("bestaat_niet"),
			want: Permissions{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PermissionsForRole(tt.role))
		})
	}
}

func TestEffectivePermissionsPrefersOverrides(t *testing.T) {
	user := User{Role: RoleDagelijks}
	assert.True(t, user.EffectivePermissions().Weekoverzicht)

	user.Overrides.Perms = &Permissions{Dagelijks: true}
	perms := user.EffectivePermissions()
	assert.True(t, perms.Dagelijks)
	assert.False(t, perms.Weekoverzicht)
}

func TestPermissionOverridesRoundTrip(t *testing.T) {
	var o PermissionOverrides
	require.NoError(t, json.Unmarshal([]byte(`null`), &o))
	assert.Nil(t, o.Perms)

	require.NoError(t, json.Unmarshal([]byte(`{"dagelijks":true,"audit":true}`), &o))
	require.NotNil(t, o.Perms)
	assert.True(t, o.Perms.Audit)

	v, err := o.Value()
	require.NoError(t, err)
	require.NoError(t, o.Scan(v))
	assert.True(t, o.Perms.Dagelijks)
}
