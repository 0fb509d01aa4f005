package postgres

import (
	"context"
	"sync"
	"testing"

	"recommendationService/domain"
	"recommendationService/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFindAllFilters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedRecommendations(t, db)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter domain.RecommendationFilter
		ids    []uint64
	}{
		{name: "no filter", filter: domain.RecommendationFilter{}, ids: []uint64{1, 2, 3}},
		{name: "type only", filter: domain.RecommendationFilter{Type: ptr("up-sell")}, ids: []uint64{2, 3}},
		{name: "parent only", filter: domain.RecommendationFilter{ParentProductID: ptr(int64(1))}, ids: []uint64{1, 2}},
		{name: "type and parent", filter: domain.RecommendationFilter{Type: ptr("up-sell"), ParentProductID: ptr(int64(1))}, ids: []uint64{2}},
		{name: "no match", filter: domain.RecommendationFilter{Type: ptr("cross-sell")}, ids: nil},
		{name: "injection attempt is a literal", filter: domain.RecommendationFilter{Type: ptr("x' OR '1'='1")}, ids: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := repo.FindAll(ctx, tt.filter)
			require.NoError(t, err)

			var ids []uint64
			for _, r := range recs {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestFindByID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedRecommendations(t, db)
	repo := NewRecommendationRepository(db)

	rec, found, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.Recommendation{ID: 3, ParentProductID: 2, RelatedProductID: 4, Type: "up-sell", Priority: 5}, rec)

	_, found, err = repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateAndMaxID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()

	maxID, err := repo.MaxID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), maxID)

	rec := domain.Recommendation{ID: 7, ParentProductID: 2, RelatedProductID: 2, Type: "x-sell", Priority: 5}
	require.NoError(t, repo.Create(ctx, &rec))

	maxID, err = repo.MaxID(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), maxID)

	dup := rec
	assert.Error(t, repo.Create(ctx, &dup))
}

func TestReplaceFieldsMatchesOnID(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedRecommendations(t, db)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceFields(ctx, &domain.Recommendation{
		ID: 1, ParentProductID: 9, RelatedProductID: 8, Type: "up-sell", Priority: 2,
	}))

	rec, _, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Recommendation{ID: 1, ParentProductID: 9, RelatedProductID: 8, Type: "up-sell", Priority: 2}, rec)
}

func TestReplaceFieldsLegacyMatchSilentlyNoOps(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedRecommendations(t, db)
	repo := NewRecommendationRepository(db, WithLegacyUpdateMatch())
	ctx := context.Background()

	require.NoError(t, repo.ReplaceFields(ctx, &domain.Recommendation{
		ID: 1, ParentProductID: 9, RelatedProductID: 8, Type: "up-sell", Priority: 2,
	}))

	rec, _, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "x-sell", rec.Type)
	assert.Equal(t, 5, rec.Priority)

	require.NoError(t, repo.ReplaceFields(ctx, &domain.Recommendation{
		ID: 1, ParentProductID: 1, RelatedProductID: 2, Type: "up-sell", Priority: 2,
	}))

	rec, _, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "up-sell", rec.Type)
	assert.Equal(t, 2, rec.Priority)
}

func TestDecrementPriorityStopsAtFloor(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, db.Create(&domain.Recommendation{ID: 1, ParentProductID: 1, RelatedProductID: 2, Type: "x-sell", Priority: 2}).Error)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()

	changed, err := repo.DecrementPriority(ctx, 1)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.DecrementPriority(ctx, 1)
	require.NoError(t, err)
	assert.False(t, changed)

	rec, _, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Priority)

	changed, err = repo.DecrementPriority(ctx, 42)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDecrementPriorityConcurrentClicks(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	require.NoError(t, db.Create(&domain.Recommendation{ID: 1, ParentProductID: 1, RelatedProductID: 2, Type: "x-sell", Priority: 30}).Error)
	repo := NewRecommendationRepository(db)

	const clicks = 20
	var wg sync.WaitGroup
	for i := 0; i < clicks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DecrementPriority(context.Background(), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rec, _, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Priority)
}

func TestDeleteIsIdempotent(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedRecommendations(t, db)
	repo := NewRecommendationRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, 2))
	require.NoError(t, repo.Delete(ctx, 2))

	_, found, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPing(t *testing.T) {
	repo := NewRecommendationRepository(testutil.NewSQLiteDB(t))
	assert.NoError(t, repo.Ping(context.Background()))
}
