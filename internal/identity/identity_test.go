package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRegisterAndLookup(t *testing.T) {
	d := NewDirectory()

	alice, err := d.Register("Alice", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, alice.ID)

	_, err = d.Register("Alice Again", "alice@example.com", "secret")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	byEmail, err := d.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	byID, err := d.GetByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)

	_, err = d.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Equal(t, "Alice", d.DisplayName(alice.ID))
	assert.Equal(t, "Unknown", d.DisplayName("ghost"))
}

func TestDirectoryAuthenticate(t *testing.T) {
	d := NewDirectory()
	alice, err := d.Register("Alice", "alice@example.com", "secret")
	require.NoError(t, err)

	got, err := d.Authenticate("alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = d.Authenticate("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = d.Authenticate("nobody@example.com", "secret")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret")
	profile := Profile{ID: "u1", Name: "Alice", Email: "alice@example.com", Image: "http://img"}

	token, err := tokens.Issue(profile)
	require.NoError(t, err)

	got, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, profile, got)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue(Profile{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenService("secret-a").Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
