package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfileForRole(t *testing.T) {
	for _, role := range AllRoles {
		t.Run(string(role), func(t *testing.T) {
			profile, err := NewProfileForRole(role, 7)
			require.NoError(t, err)
			assert.Equal(t, role, profile.Role)
		})
	}

	t.Run("player profile defaults", func(t *testing.T) {
		profile, err := NewProfileForRole(RolePlayer, 7)
		require.NoError(t, err)
		require.NotNil(t, profile.Player)
		assert.Equal(t, 7, profile.Player.UserID)
		assert.Equal(t, ConsentNotRequired, profile.Player.ParentalConsentStatus)
		assert.Nil(t, profile.Player.ParentGuardianID)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := NewProfileForRole(Role("WIZARD"), 7)
		assert.Error(t, err)
	})
}

func TestPositionsRoundTrip(t *testing.T) {
	encoded := EncodePositions([]string{"st", "LW", "cam"})
	assert.Equal(t, "ST,LW,CAM", encoded)
	assert.Equal(t, []string{"ST", "LW", "CAM"}, ParsePositions(encoded))
	assert.Empty(t, ParsePositions(""))
	assert.Empty(t, EncodePositions(nil))
}

func TestRoleValid(t *testing.T) {
	for _, role := range AllRoles {
		assert.True(t, role.Valid(), role)
	}
	assert.False(t, Role("WIZARD").Valid())
	assert.False(t, Role("player").Valid(), "role codes are uppercase")
}
