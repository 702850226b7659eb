package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserType(t *testing.T) {
	tests := []struct {
		in      string
		want    UserType
		wantErr bool
	}{
		{"SuperAdmin", SuperAdmin, false},
		{"superadmin", SuperAdmin, false},
		{"0", SuperAdmin, false},
		{"1", Admin, false},
		{"User", RegularUser, false},
		{"2", RegularUser, false},
		{"7", "", true},
		{"Pilot", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUserType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUserType_UnmarshalJSON(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"username":"a","userType":0}`), &u))
	assert.Equal(t, SuperAdmin, u.UserType)

	require.NoError(t, json.Unmarshal([]byte(`{"username":"a","userType":"Admin"}`), &u))
	assert.Equal(t, Admin, u.UserType)

	require.NoError(t, json.Unmarshal([]byte(`{"username":"a","userType":"Pilot"}`), &u))
	assert.Equal(t, UserType("Pilot"), u.UserType)
	assert.False(t, Can(&u, ManageCriteria))
}

func TestUser_ExpiredAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	future := &User{ExpiresAt: "2026-05-02T12:00:00Z"}
	assert.False(t, future.ExpiredAt(now))

	past := &User{ExpiresAt: "2026-04-30T12:00:00Z"}
	assert.True(t, past.ExpiredAt(now))

	noZone := &User{ExpiresAt: "2026-05-01T13:00:00.1234567"}
	assert.False(t, noZone.ExpiredAt(now))

	exact := &User{ExpiresAt: "2026-05-01T12:00:00Z"}
	assert.True(t, exact.ExpiredAt(now), "expiry instant is already expired")

	garbage := &User{ExpiresAt: "tomorrow"}
	assert.True(t, garbage.ExpiredAt(now))
}

func TestUser_DisplayName(t *testing.T) {
	assert.Equal(t, "Vera Rubin", (&User{Username: "vr", FirstName: "Vera", LastName: "Rubin"}).DisplayName())
	assert.Equal(t, "vr", (&User{Username: "vr"}).DisplayName())
}

func TestCan(t *testing.T) {
	super := &User{UserType: SuperAdmin}
	admin := &User{UserType: Admin}
	user := &User{UserType: RegularUser}

	assert.True(t, Can(super, ManageCriteria))
	assert.False(t, Can(admin, ManageCriteria))
	assert.False(t, Can(user, ManageCriteria))

	for _, u := range []*User{super, admin, user} {
		assert.True(t, Can(u, ViewPlanets))
		assert.True(t, Can(u, EditEvaluations))
	}

	assert.False(t, Can(nil, ViewPlanets))
	assert.False(t, Can(super, Capability(99)))
}
