package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gastos-cli/gastos/internal/api"
	"github.com/gastos-cli/gastos/internal/common"
	"github.com/gastos-cli/gastos/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func alwaysOn() bool { return true }

func TestLookup_FreshHitSkipsFetch(t *testing.T) {
	c := New(newTestStore(t), alwaysOn)
	ctx := context.Background()

	fetches := 0
	fetch := func(context.Context) ([]model.Categoria, error) {
		fetches++
		return []model.Categoria{{ID: 1, Nombre: "Hogar", Activa: true}}, nil
	}

	first, err := Lookup(ctx, c, Key(FamilyCategorias), FamilyCategorias, WindowCategorias, fetch)
	require.NoError(t, err)
	second, err := Lookup(ctx, c, Key(FamilyCategorias), FamilyCategorias, WindowCategorias, fetch)
	require.NoError(t, err)

	assert.Equal(t, 1, fetches, "second read must come from the cache")
	assert.Equal(t, first, second)
}

func TestLookup_ExpiredWindowRefetches(t *testing.T) {
	store := newTestStore(t)
	c := New(store, alwaysOn)
	ctx := context.Background()

	key := Key(FamilyMovimientos, "all")
	require.NoError(t, store.Put(ctx, key, FamilyMovimientos, []byte(`[]`),
		time.Now().Add(-10*time.Minute)))

	fetches := 0
	_, err := Lookup(ctx, c, key, FamilyMovimientos, WindowMovimientos,
		func(context.Context) ([]model.Movimiento, error) {
			fetches++
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, fetches, "entry older than its window must be refetched")
}

func TestLookup_DisabledWithoutSession(t *testing.T) {
	c := New(newTestStore(t), func() bool { return false })

	fetches := 0
	_, err := Lookup(context.Background(), c, Key(FamilyCategorias), FamilyCategorias, WindowCategorias,
		func(context.Context) ([]model.Categoria, error) {
			fetches++
			return nil, nil
		})

	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, 0, fetches, "reads are disabled without a session")
}

func TestLookup_AuthErrorNotRetried(t *testing.T) {
	c := New(newTestStore(t), alwaysOn)

	fetches := 0
	_, err := Lookup(context.Background(), c, Key(FamilyResumen), FamilyResumen, WindowResumen,
		func(context.Context) (*model.ResumenFinanciero, error) {
			fetches++
			return nil, &api.Error{Message: "No autenticado", Status: 401}
		})

	require.Error(t, err)
	assert.True(t, api.IsAuthError(err), "original API error must survive the retry wrapper")
	assert.Equal(t, 1, fetches, "401 must not be retried")
}

func TestLookup_TransientErrorRetriedThrice(t *testing.T) {
	c := New(newTestStore(t), alwaysOn)

	fetches := 0
	_, err := Lookup(context.Background(), c, Key(FamilyResumen), FamilyResumen, WindowResumen,
		func(context.Context) (*model.ResumenFinanciero, error) {
			fetches++
			return nil, &api.Error{Message: "connection failed", Err: common.ErrAPIUnavailable}
		})

	require.Error(t, err)
	assert.Equal(t, 3, fetches, "transient read failures retry up to the fixed bound")
}

func TestInvalidate_MovimientoMutationSweepsFamilies(t *testing.T) {
	store := newTestStore(t)
	c := New(store, alwaysOn)
	ctx := context.Background()

	now := time.Now()
	seed := map[string]string{
		Key(FamilyMovimientos, "all"):     FamilyMovimientos,
		Key(FamilyMovimientos, "cat", "3"): FamilyMovimientos,
		Key(FamilyResumen, "financiero"):  FamilyResumen,
		Key(FamilyReportes, "mensual", "2025"): FamilyReportes,
		Key(FamilyCategorias):             FamilyCategorias,
	}
	for key, family := range seed {
		require.NoError(t, store.Put(ctx, key, family, []byte(`{}`), now))
	}

	c.Invalidate(ctx, MovimientoMutation...)

	for key, family := range seed {
		entry, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, entry)
		if family == FamilyCategorias {
			assert.False(t, entry.Stale, "categorias must survive a movement mutation")
		} else {
			assert.True(t, entry.Stale, "key %q (family %s) must be stale", key, family)
		}
	}
}

func TestInvalidate_CategoriaMutationIncludesMovimientos(t *testing.T) {
	store := newTestStore(t)
	c := New(store, alwaysOn)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, Key(FamilyMovimientos, "all"), FamilyMovimientos, []byte(`[]`), time.Now()))
	require.NoError(t, store.Put(ctx, Key(FamilyCategorias), FamilyCategorias, []byte(`[]`), time.Now()))

	c.Invalidate(ctx, CategoriaMutation...)

	for _, key := range []string{Key(FamilyMovimientos, "all"), Key(FamilyCategorias)} {
		entry, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.True(t, entry.Stale, "movements embed category data, both must go stale")
	}
}

func TestLookup_StaleFlagForcesRefetch(t *testing.T) {
	store := newTestStore(t)
	c := New(store, alwaysOn)
	ctx := context.Background()

	key := Key(FamilyCategorias)
	fetches := 0
	fetch := func(context.Context) ([]model.Categoria, error) {
		fetches++
		return []model.Categoria{{ID: int64(fetches), Nombre: "v", Activa: true}}, nil
	}

	_, err := Lookup(ctx, c, key, FamilyCategorias, WindowCategorias, fetch)
	require.NoError(t, err)

	c.Invalidate(ctx, FamilyCategorias)

	got, err := Lookup(ctx, c, key, FamilyCategorias, WindowCategorias, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches, "stale flag must force a refetch inside the window")
	assert.Equal(t, int64(2), got[0].ID)

	// The refetch clears the flag: a third read hits the cache again.
	_, err = Lookup(ctx, c, key, FamilyCategorias, WindowCategorias, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", FamilyMovimientos, []byte(`1`), time.Now()))
	require.NoError(t, store.Put(ctx, "b", FamilyMovimientos, []byte(`2`), time.Now()))
	require.NoError(t, store.Put(ctx, "c", FamilyCategorias, []byte(`3`), time.Now()))
	_, err := store.MarkStale(ctx, FamilyCategorias)
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByFamily[FamilyMovimientos])
	assert.Equal(t, 1, stats.StaleCnt)
}
