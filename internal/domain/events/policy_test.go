package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	admin   = Actor{ID: "admin-1", Role: "admin"}
	alice   = Actor{ID: "alice", Role: "user"}
	bob     = Actor{ID: "bob", Role: "user"}
	public  = Event{ULID: "01HQZX3Y4K6F7G8H9J0K1M2N3P", Visibility: VisibilityPublic, CreatedBy: UserSummary{ID: "alice"}}
	private = Event{ULID: "01HQZX3Y4K6F7G8H9J0K1M2N3Q", Visibility: VisibilityPrivate, CreatedBy: UserSummary{ID: "alice"}}
)

func TestCanReadPublicEvent(t *testing.T) {
	require.True(t, CanRead(alice, public))
	require.True(t, CanRead(bob, public))
	require.True(t, CanRead(admin, public))
}

func TestCanReadPrivateEvent(t *testing.T) {
	require.True(t, CanRead(alice, private), "creator can read own private event")
	require.False(t, CanRead(bob, private), "stranger cannot read a private event")
	require.True(t, CanRead(admin, private), "admin can read any event")
}

func TestCanListMatchesCanRead(t *testing.T) {
	for _, actor := range []Actor{admin, alice, bob} {
		for _, event := range []Event{public, private} {
			require.Equal(t, CanRead(actor, event), CanList(actor, event))
		}
	}
}

func TestCanWrite(t *testing.T) {
	require.True(t, CanWrite(alice, private), "creator can edit")
	require.True(t, CanWrite(admin, private), "admin can edit")
	require.False(t, CanWrite(bob, public), "others cannot edit, even public events")
}

func TestCanDeleteIsAdminOnly(t *testing.T) {
	require.True(t, CanDelete(admin))
	// Ownership does not grant delete.
	require.False(t, CanDelete(alice))
	require.False(t, CanDelete(bob))
}
