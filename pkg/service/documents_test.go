package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/service"
)

func TestDocumentManager(t *testing.T) {
	m := service.NewDocumentManager()

	a := m.Open("plain", "", "alpha")
	b := m.Open("cpp", "17", "beta")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 1, a.Revision)
	assert.Equal(t, 2, m.Len())

	got, ok := m.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "alpha", got.Content)
	assert.Equal(t, "plain", got.Profile)

	updated, ok := m.Update(a.ID, "alpha v2")
	require.True(t, ok)
	assert.Equal(t, 2, updated.Revision)
	assert.Equal(t, "alpha v2", updated.Content)
	assert.Equal(t, "plain", updated.Profile, "update must keep the profile")

	// The snapshot handed out before the update is untouched.
	assert.Equal(t, "alpha", got.Content)

	_, ok = m.Update("missing", "x")
	assert.False(t, ok)

	m.Delete(a.ID)
	_, ok = m.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}
