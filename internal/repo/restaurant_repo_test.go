package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restaurant-api/internal/core/database"
	"restaurant-api/internal/domain"
)

func sample(n int) domain.Restaurant {
	suffix := string(rune('a' + n))
	return domain.Restaurant{
		Name:          "Restaurant " + suffix,
		Email:         suffix + "@example.com",
		PasswordHash:  "$2a$10$hash" + suffix,
		CommercialNum: int64(1000 + n),
		Phone:         "0550000000" + suffix,
		Location:      "Riyadh",
	}
}

func strPtr(s string) *string { return &s }

func newSqliteRepo(t *testing.T) domain.RestaurantRepository {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "restaurants.db"),
		LogLevel: "silent",
		Log:      zap.NewNop(),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	r := NewGormRestaurantRepo(db)
	require.NoError(t, r.Migrate())
	return r
}

func newMemoryRepo(t *testing.T) domain.RestaurantRepository {
	t.Helper()
	return NewMemoryRestaurantRepo()
}

func TestRestaurantRepos(t *testing.T) {
	impls := map[string]func(t *testing.T) domain.RestaurantRepository{
		"memory": newMemoryRepo,
		"sqlite": newSqliteRepo,
	}
	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			t.Run("create and find", func(t *testing.T) { testCreateFind(t, newRepo(t)) })
			t.Run("unique fields", func(t *testing.T) { testUnique(t, newRepo(t)) })
			t.Run("update", func(t *testing.T) { testUpdate(t, newRepo(t)) })
			t.Run("delete", func(t *testing.T) { testDelete(t, newRepo(t)) })
			t.Run("malformed id", func(t *testing.T) { testMalformedID(t, newRepo(t)) })
		})
	}
}

func testCreateFind(t *testing.T, r domain.RestaurantRepository) {
	ctx := context.Background()

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	in := sample(0)
	require.NoError(t, r.Create(ctx, &in))
	require.NotEmpty(t, in.ID)

	got, err := r.FindByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in, *got)

	got, err = r.FindByEmail(ctx, in.Email)
	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)

	_, err = r.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	second := sample(1)
	require.NoError(t, r.Create(ctx, &second))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func testUnique(t *testing.T, r domain.RestaurantRepository) {
	ctx := context.Background()
	first := sample(0)
	require.NoError(t, r.Create(ctx, &first))

	sameEmail := sample(1)
	sameEmail.Email = first.Email
	sameNum := sample(2)
	sameNum.CommercialNum = first.CommercialNum
	samePhone := sample(3)
	samePhone.Phone = first.Phone

	for _, c := range []domain.Restaurant{sameEmail, sameNum, samePhone} {
		c := c
		assert.ErrorIs(t, r.Create(ctx, &c), domain.ErrDuplicate)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other := sample(4)
	require.NoError(t, r.Create(ctx, &other))
	_, err = r.Update(ctx, other.ID, domain.RestaurantPatch{Email: strPtr(first.Email)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func testUpdate(t *testing.T, r domain.RestaurantRepository) {
	ctx := context.Background()
	in := sample(0)
	require.NoError(t, r.Create(ctx, &in))

	num := int64(777)
	got, err := r.Update(ctx, in.ID, domain.RestaurantPatch{Location: strPtr("Jeddah"), CommercialNum: &num})
	require.NoError(t, err)

	want := in
	want.Location = "Jeddah"
	want.CommercialNum = 777
	assert.Equal(t, want, *got)

	got, err = r.Update(ctx, in.ID, domain.RestaurantPatch{})
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	stored, err := r.FindByID(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *stored)

	missing := sample(1)
	require.NoError(t, r.Create(ctx, &missing))
	require.NoError(t, r.Delete(ctx, missing.ID))
	_, err = r.Update(ctx, missing.ID, domain.RestaurantPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func testDelete(t *testing.T, r domain.RestaurantRepository) {
	ctx := context.Background()
	in := sample(0)
	require.NoError(t, r.Create(ctx, &in))

	require.NoError(t, r.Delete(ctx, in.ID))
	_, err := r.FindByID(ctx, in.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, in.ID), domain.ErrNotFound)
}

func testMalformedID(t *testing.T, r domain.RestaurantRepository) {
	ctx := context.Background()

	_, err := r.FindByID(ctx, "not-a-key")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Update(ctx, "not-a-key", domain.RestaurantPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "not-a-key"), domain.ErrNotFound)
}
