package account

import (
	"testing"

	"github.com/stretchr/testify/require"

	"photodrop/internal/model"
)

func testAccounts() []model.Account {
	return []model.Account{
		{Username: "alice", Password: "pw123", Email: "alice@x.com"},
		{Username: "bob", Password: "hunter2", Email: "bob@x.com"},
		{Username: "alice", Password: "pw123", Email: "shadow@x.com"},
	}
}

func TestAuthenticate(t *testing.T) {
	store := NewStore(testAccounts())

	acc, ok := store.Authenticate("alice", "pw123")
	require.True(t, ok)
	require.Equal(t, "alice@x.com", acc.Email, "first match wins")

	acc, ok = store.Authenticate("bob", "hunter2")
	require.True(t, ok)
	require.Equal(t, "bob@x.com", acc.Email)
}

func TestAuthenticateMiss(t *testing.T) {
	store := NewStore(testAccounts())

	_, ok := store.Authenticate("alice", "wrong")
	require.False(t, ok)

	_, ok = store.Authenticate("nobody", "pw123")
	require.False(t, ok)

	_, ok = store.Authenticate("Alice", "pw123")
	require.False(t, ok, "username compare is case sensitive")

	_, ok = store.Authenticate("alice", "PW123")
	require.False(t, ok, "password compare is case sensitive")
}

func TestStoreIsImmutable(t *testing.T) {
	source := testAccounts()
	store := NewStore(source)
	source[0].Password = "changed"

	_, ok := store.Authenticate("alice", "pw123")
	require.True(t, ok, "mutating the source slice must not affect the store")
}
