package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/courier/pkg/adapters/memory"
	"github.com/aretw0/courier/pkg/domain"
	"github.com/aretw0/courier/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	s := domain.NewSession("iso")
	s.Points = []domain.Point{domain.P(1, 1)}
	require.NoError(t, store.Save(ctx, "iso", s))

	s.Points[0] = domain.P(9, 9)
	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, domain.P(1, 1), loaded.Points[0], "Save must copy")

	loaded.Points[0] = domain.P(7, 7)
	again, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, domain.P(1, 1), again.Points[0], "Load must copy")
}
