package statepages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

func TestRegistryCreateAll(t *testing.T) {
	r := NewRegistry(NewStubClient(), fastExecutor())

	n, err := r.CreateAll()
	require.NoError(t, err)
	assert.Equal(t, len(domain.Regions()), n)
	assert.Len(t, r.IDs(), n)
}

func TestRegistryCreate_UnknownRegion(t *testing.T) {
	r := NewRegistry(NewStubClient(), fastExecutor())

	_, err := r.Create("ZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistryGet_NeverFails(t *testing.T) {
	r := NewRegistry(NewStubClient(), fastExecutor())

	c, ok := r.Get("CA")
	assert.False(t, ok)
	assert.Nil(t, c)

	_, err := r.Create("CA")
	require.NoError(t, err)

	c, ok = r.Get("CA")
	assert.True(t, ok)
	assert.Equal(t, "CA", c.ID())
}

func TestRegistryList_ReturnsCopy(t *testing.T) {
	r := NewRegistry(NewStubClient(), fastExecutor())
	_, err := r.Create("CA")
	require.NoError(t, err)

	listed := r.List()
	delete(listed, "CA")

	_, ok := r.Get("CA")
	assert.True(t, ok, "mutating the listed map must not touch the registry")
}

func TestRegistryIDs_CatalogOrder(t *testing.T) {
	r := NewRegistry(NewStubClient(), fastExecutor())
	_, err := r.CreateAll()
	require.NoError(t, err)

	var want []string
	for _, region := range domain.Regions() {
		want = append(want, region.Code)
	}
	assert.Equal(t, want, r.IDs())
}
