package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("Jane@Example.com", "s3cret-pass", "Jane", UserRoleCustomer)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, UserRoleCustomer, u.Role)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.VerifyPassword("s3cret-pass"))
	assert.False(t, u.VerifyPassword("wrong-pass"))
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("not-an-email", "s3cret-pass", "Jane", UserRoleCustomer)
	assert.Error(t, err)

	_, err = NewUser("jane@example.com", "short", "Jane", UserRoleCustomer)
	assert.Error(t, err)

	_, err = NewUser("jane@example.com", "s3cret-pass", "", UserRoleCustomer)
	assert.Error(t, err)

	_, err = NewUser("jane@example.com", "s3cret-pass", "Jane", UserRole("root"))
	assert.Error(t, err)
}

func TestUser_ChangePassword(t *testing.T) {
	u, err := NewUser("jane@example.com", "s3cret-pass", "Jane", UserRoleCustomer)
	require.NoError(t, err)

	require.NoError(t, u.ChangePassword("new-password-1"))
	assert.True(t, u.VerifyPassword("new-password-1"))
	assert.False(t, u.VerifyPassword("s3cret-pass"))

	assert.Error(t, u.ChangePassword("short"))
}

func TestUser_DisableEnable(t *testing.T) {
	u, err := NewUser("jane@example.com", "s3cret-pass", "Jane", UserRoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.True(t, u.IsActive())

	u.Disable()
	assert.False(t, u.IsActive())

	u.Enable()
	assert.True(t, u.IsActive())
}
