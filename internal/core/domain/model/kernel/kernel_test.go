package kernel_test

import (
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	t.Run("new UUID is valid and unique", func(t *testing.T) {
		a := kernel.NewUUID()
		b := kernel.NewUUID()

		require.NoError(t, a.Validate())
		assert.False(t, a.IsEqual(b))
		assert.True(t, a.IsEqual(a))
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var id kernel.UUID
		require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
	})

	t.Run("round trip through string", func(t *testing.T) {
		id := kernel.NewUUID()
		parsed, err := kernel.UUIDFromString(id.String())
		require.NoError(t, err)
		assert.True(t, id.IsEqual(parsed))
	})

	t.Run("invalid string is rejected", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("round trip through bytes", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()
		parsed, err := kernel.UUIDFromBytes(raw[:])
		require.NoError(t, err)
		assert.True(t, id.IsEqual(parsed))
	})
}

func TestRole(t *testing.T) {
	t.Run("valid roles pass", func(t *testing.T) {
		for _, r := range []kernel.Role{
			kernel.RoleCustomer, kernel.RoleOrderTaker, kernel.RoleExecutiveChef,
			kernel.RoleCook, kernel.RolePacker, kernel.RoleDriver, kernel.RoleSiteAdmin,
		} {
			require.NoError(t, r.Validate(), r.String())
		}
	})

	t.Run("unknown role fails", func(t *testing.T) {
		_, err := kernel.RoleFromString("superuser")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("groupings", func(t *testing.T) {
		assert.True(t, kernel.RoleCook.IsKitchenStaff())
		assert.True(t, kernel.RolePacker.IsKitchenStaff())
		assert.False(t, kernel.RoleDriver.IsKitchenStaff())
		assert.True(t, kernel.RoleSiteAdmin.IsAdmin())
		assert.True(t, kernel.RoleExecutiveChef.IsAdmin())
		assert.False(t, kernel.RoleCustomer.IsAdmin())
	})
}

func TestActor(t *testing.T) {
	t.Run("constructed actor is valid", func(t *testing.T) {
		actor, err := kernel.NewActor(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleCook)
		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.Equal(t, kernel.RoleCook, actor.Role())
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var actor kernel.Actor
		require.Error(t, actor.Validate())
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.NewUUID(), kernel.NewUUID(), kernel.Role("nobody"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("missing tenant rejected", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.NewUUID(), kernel.UUID{}, kernel.RoleDriver)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("contact copy does not mutate original", func(t *testing.T) {
		actor, err := kernel.NewActor(kernel.NewUUID(), kernel.NewUUID(), kernel.RoleDriver)
		require.NoError(t, err)

		withContact := actor.WithContact("Dana", "dana@example.com")
		assert.Equal(t, "Dana", withContact.Name())
		assert.Equal(t, "dana@example.com", withContact.Email())
		assert.Empty(t, actor.Name())
	})
}
