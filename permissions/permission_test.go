package permissions_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayledger/permissions"
	"stayledger/shared/constant"
)

func TestGet_EmbeddedDocument(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)

	tests := []struct {
		method  string
		path    string
		role    string
		allowed bool
	}{
		{method: "GET", path: "/v1/listings/", role: "", allowed: true},
		{method: "GET", path: "/v1/listings/{id}/availability", role: "", allowed: true},
		{method: "POST", path: "/v1/listings/", role: constant.RoleUser, allowed: false},
		{method: "POST", path: "/v1/listings/", role: constant.RoleHost, allowed: true},
		{method: "GET", path: "/v1/bookings/", role: constant.RoleHost, allowed: false},
		{method: "GET", path: "/v1/bookings/", role: constant.RoleAdmin, allowed: true},
		{method: "POST", path: "/v1/bookings/", role: constant.RoleUser, allowed: true},
		{method: "post", path: "/v1/payments/", role: constant.RoleUser, allowed: true},
		{method: "POST", path: "/v1/coupons/", role: constant.RoleSuperAdmin, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path+" as "+tt.role, func(t *testing.T) {
			assert.Equal(t, tt.allowed, data.FindPermissions(tt.path, tt.method).Allows(tt.role))
		})
	}
}

func TestParse(t *testing.T) {
	_, err := permissions.Parse([]byte(`{"endpoints":[
		{"path":"/v1/bookings/","method":"GET"},
		{"path":"/v1/bookings/","method":"get"}
	]}`))
	assert.ErrorContains(t, err, "duplicate permission")

	_, err = permissions.Parse([]byte(`{"endpoints":`))
	assert.Error(t, err)

	data, err := permissions.Parse([]byte(`{"skip":true,"endpoints":[]}`))
	require.NoError(t, err)
	assert.True(t, data.Skip)
	assert.Equal(t, permissions.Permission{}, data.FindPermissions("/v1/unknown", "GET"))
}
