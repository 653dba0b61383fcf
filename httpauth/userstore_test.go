package httpauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryUserStoreVerify(t *testing.T) {
	s := NewMemoryUserStore()
	require.NoError(t, s.Add("bob", "hunter2"))

	require.True(t, s.Verify("bob", "hunter2"))
	require.False(t, s.Verify("bob", "wrong"))
	require.False(t, s.Verify("nobody", "anything"))
}

func TestMemoryUserStoreAddDuplicateFails(t *testing.T) {
	s := NewMemoryUserStore()
	require.NoError(t, s.Add("bob", "hunter2"))
	require.Error(t, s.Add("bob", "other"))
}

func TestMemoryUserStoreUpdateUnknownUserFails(t *testing.T) {
	s := NewMemoryUserStore()
	err := s.Update("ghost", "pw")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStoreRemove(t *testing.T) {
	s := NewMemoryUserStore()
	require.NoError(t, s.Add("bob", "hunter2"))
	s.Remove("bob")
	require.False(t, s.Verify("bob", "hunter2"))
}

func TestMemoryUserStoreExists(t *testing.T) {
	s := NewMemoryUserStore()
	require.False(t, s.Exists("bob"))
	require.NoError(t, s.Add("bob", "hunter2"))
	require.True(t, s.Exists("bob"))
	s.Remove("bob")
	require.False(t, s.Exists("bob"))
}
