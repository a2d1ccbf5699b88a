package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/podsuite/console/internal/theme"
)

func testUser() User {
	return User{
		ID:             1,
		Email:          "a@b.com",
		Username:       "seller",
		PreferredTheme: "3",
		IsVerified:     true,
	}
}

func TestStore_Login(t *testing.T) {
	themes := theme.NewStore()
	store := NewStore(themes)

	store.Login(testUser(), "tok1", "ref1")

	assert.True(t, store.Authenticated())
	assert.Equal(t, "tok1", store.AccessToken())
	assert.Equal(t, "ref1", store.RefreshToken())
	require.NotNil(t, store.User())
	assert.Equal(t, "a@b.com", store.User().Email)
	assert.Equal(t, "3", themes.Current(), "login hydrates theme from profile")
}

func TestStore_Logout(t *testing.T) {
	themes := theme.NewStore()
	store := NewStore(themes)
	store.Login(testUser(), "tok1", "ref1")

	store.Logout()

	assert.False(t, store.Authenticated())
	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.Nil(t, store.User())
	assert.Equal(t, theme.DefaultID, themes.Current(), "logout resets theme")

	t.Run("idempotent when already logged out", func(t *testing.T) {
		store.Logout()
		assert.False(t, store.Authenticated())
		assert.Nil(t, store.User())
	})
}

func TestStore_SetTokens(t *testing.T) {
	store := NewStore(nil)
	store.Login(testUser(), "tok1", "ref1")

	store.SetTokens("tok2", "ref1")

	assert.Equal(t, "tok2", store.AccessToken())
	assert.Equal(t, "ref1", store.RefreshToken())
	assert.True(t, store.Authenticated(), "token refresh leaves the authenticated flag untouched")
	require.NotNil(t, store.User())
	assert.Equal(t, int64(1), store.User().ID)
}

func TestStore_UpdateUser(t *testing.T) {
	t.Run("shallow merges given fields", func(t *testing.T) {
		store := NewStore(nil)
		store.Login(testUser(), "tok1", "ref1")

		name := "new-name"
		avatar := "https://cdn.example.com/a.png"
		store.UpdateUser(UserUpdate{Username: &name, AvatarURL: &avatar})

		u := store.User()
		require.NotNil(t, u)
		assert.Equal(t, "new-name", u.Username)
		assert.Equal(t, "https://cdn.example.com/a.png", u.AvatarURL)
		assert.Equal(t, "a@b.com", u.Email, "untouched fields survive")
	})

	t.Run("no-op when nobody is logged in", func(t *testing.T) {
		store := NewStore(nil)

		name := "ghost"
		store.UpdateUser(UserUpdate{Username: &name})

		assert.Nil(t, store.User())
		assert.False(t, store.Authenticated())
	})
}

// isAuthenticated is true iff the most recent terminal operation was a login
// and no logout has occurred since, regardless of interleaved token refreshes
// and profile edits.
func TestStore_AuthenticatedInvariant(t *testing.T) {
	store := NewStore(nil)
	name := "x"

	assert.False(t, store.Authenticated())

	store.SetTokens("tok", "ref")
	assert.False(t, store.Authenticated(), "tokens alone never authenticate")

	store.Login(testUser(), "tok1", "ref1")
	store.SetTokens("tok2", "ref1")
	store.UpdateUser(UserUpdate{Username: &name})
	assert.True(t, store.Authenticated())

	store.Logout()
	store.SetTokens("tok3", "ref3")
	assert.False(t, store.Authenticated())

	store.Login(testUser(), "tok4", "ref4")
	assert.True(t, store.Authenticated())
}

func TestStore_SubscribersReceiveEveryMutation(t *testing.T) {
	store := NewStore(nil)

	var got []Snapshot
	store.Subscribe(func(s Snapshot) { got = append(got, s) })

	store.Login(testUser(), "tok1", "ref1")
	store.SetTokens("tok2", "ref1")
	store.Logout()

	require.Len(t, got, 3)
	assert.True(t, got[0].IsAuthenticated)
	assert.Equal(t, "tok1", got[0].AccessToken)
	assert.Equal(t, "tok2", got[1].AccessToken)
	assert.Equal(t, "ref1", got[1].RefreshToken)
	assert.False(t, got[2].IsAuthenticated)
	assert.Nil(t, got[2].User)
	assert.Empty(t, got[2].AccessToken)
}

func TestStore_Restore(t *testing.T) {
	t.Run("restores an authenticated session", func(t *testing.T) {
		u := testUser()
		store := NewStore(theme.NewStore())
		store.Restore(Snapshot{
			User:            &u,
			AccessToken:     "tok1",
			RefreshToken:    "ref1",
			IsAuthenticated: true,
		})

		assert.True(t, store.Authenticated())
		assert.Equal(t, "tok1", store.AccessToken())
	})

	t.Run("re-derives the flag when credentials are missing", func(t *testing.T) {
		store := NewStore(nil)
		store.Restore(Snapshot{IsAuthenticated: true})

		assert.False(t, store.Authenticated())
	})
}

func TestFilePersister_Roundtrip(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePersister(dir, "auth-storage")
	ctx := context.Background()

	_, ok, err := p.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "missing file is not an error")

	u := testUser()
	require.NoError(t, p.Save(ctx, Snapshot{
		User:            &u,
		AccessToken:     "tok1",
		RefreshToken:    "ref1",
		IsAuthenticated: true,
	}))

	snap, ok, err := p.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tok1", snap.AccessToken)
	assert.Equal(t, "ref1", snap.RefreshToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, "a@b.com", snap.User.Email)
}

// Logout followed by reading persisted storage yields an empty session
func TestStore_LogoutPersistsEmptySession(t *testing.T) {
	dir := t.TempDir()
	p := NewFilePersister(dir, "auth-storage")
	ctx := context.Background()

	store := NewStore(nil)
	store.Subscribe(func(s Snapshot) { _ = p.Save(ctx, s) })

	store.Login(testUser(), "tok1", "ref1")
	store.Logout()

	snap, ok, err := p.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Empty(t, snap.RefreshToken)
	assert.False(t, snap.IsAuthenticated)
}
