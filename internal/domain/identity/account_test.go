package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestNewAccount(t *testing.T) {
	t.Run("admin account", func(t *testing.T) {
		a, err := NewAccount("ops.admin", "Ops@Example.com", "s3cret-pass", RoleAdmin, nil)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", a.Email)
		assert.True(t, a.Active)
		assert.True(t, a.IsAdmin())
		assert.Nil(t, a.StoreID)
		assert.NotEqual(t, "s3cret-pass", a.PasswordHash)
		assert.True(t, a.VerifyPassword("s3cret-pass"))
		assert.Len(t, a.GetDomainEvents(), 1)
	})

	t.Run("store account requires store", func(t *testing.T) {
		_, err := NewAccount("store1", "", "password1", RoleStore, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "store")
	})

	t.Run("store account binds store", func(t *testing.T) {
		storeID := uuid.New()
		a, err := NewAccount("store1", "", "password1", RoleStore, &storeID)
		require.NoError(t, err)
		require.NotNil(t, a.StoreID)
		assert.Equal(t, storeID, *a.StoreID)
		assert.Nil(t, a.VendorID)
	})

	t.Run("vendor account binds vendor", func(t *testing.T) {
		vendorID := uuid.New()
		a, err := NewAccount("grower", "", "password1", RoleVendor, &vendorID)
		require.NoError(t, err)
		require.NotNil(t, a.VendorID)
		assert.Equal(t, vendorID, *a.VendorID)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewAccount("someone", "", "short", RoleAdmin, nil)
		assert.Error(t, err)
	})

	t.Run("rejects bad username", func(t *testing.T) {
		_, err := NewAccount("a b", "", "password1", RoleAdmin, nil)
		assert.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewAccount("someone", "", "password1", Role("ROOT"), nil)
		assert.Error(t, err)
	})
}

func TestAccount_ChangePassword(t *testing.T) {
	a, err := NewAccount("ops", "", "password1", RoleAdmin, nil)
	require.NoError(t, err)

	assert.Error(t, a.ChangePassword("wrong-pass", "password2"))
	assert.Error(t, a.ChangePassword("password1", "password1"))

	require.NoError(t, a.ChangePassword("password1", "password2"))
	assert.True(t, a.VerifyPassword("password2"))
	assert.False(t, a.VerifyPassword("password1"))
}

func TestAccount_Activation(t *testing.T) {
	a, err := NewAccount("ops", "", "password1", RoleAdmin, nil)
	require.NoError(t, err)

	assert.Error(t, a.Activate())
	require.NoError(t, a.Deactivate())
	assert.False(t, a.Active)
	assert.Error(t, a.Deactivate())
	require.NoError(t, a.Activate())
	assert.True(t, a.Active)
}

func TestAccount_RecordLogin(t *testing.T) {
	a, err := NewAccount("ops", "", "password1", RoleAdmin, nil)
	require.NoError(t, err)
	assert.Nil(t, a.LastLoginAt)
	a.RecordLogin()
	assert.NotNil(t, a.LastLoginAt)
}
