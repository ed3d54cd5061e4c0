package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"olgish-cakes/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// positions must stay within the SKU sequence range the schema allows
var nextPosition int64 = -1

func newPosition() int {
	return int(atomic.AddInt64(&nextPosition, 1))
}

func newTestCategory(t *testing.T) *domain.Category {
	t.Helper()
	id := uuid.New()
	category := &domain.Category{
		ID:          id,
		Name:        "Honey Cakes " + id.String(),
		Slug:        "honey-cakes-" + id.String(),
		Description: "Layered honey sponge cakes",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, NewCategoryRepository(testDB).Create(context.Background(), category))
	return category
}

func newTestCake(name string, position int) *domain.Cake {
	now := time.Now().UTC()
	id := uuid.New()
	return &domain.Cake{
		ID:        id,
		Name:      name,
		Slug:      "cake-" + id.String(),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Feature: structured-data, Property 12: Cake creation preserves attributes
func TestProperty_CakeCreationPreservesAttributes(t *testing.T) {
	repo := NewCakeRepository(testDB)
	category := newTestCategory(t)

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a cake preserves all attributes", prop.ForAll(
		func(name string, price float64, allergens []string, plain string) bool {
			ctx := context.Background()

			cake := newTestCake(name, newPosition())
			cake.Pricing = &domain.Pricing{Standard: price}
			cake.Allergens = allergens
			cake.Ingredients = []string{"Honey", "Flour"}
			cake.CategoryID = &category.ID
			cake.MainImage = &domain.Image{URL: "https://cdn.olgishcakes.co.uk/" + cake.Slug + ".jpg", Alt: name}
			cake.Description = domain.RichText{
				Plain:  plain,
				Blocks: []domain.Block{{Style: "normal", Children: []domain.Span{{Text: plain, Marks: []string{"strong"}}}}},
			}

			if err := repo.Create(ctx, cake); err != nil {
				t.Logf("FAIL: Failed to create cake: %v", err)
				return false
			}
			defer testDB.Exec("DELETE FROM cakes WHERE id = $1", cake.ID)

			got, err := repo.FindByID(ctx, cake.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve cake: %v", err)
				return false
			}

			if got.Name != cake.Name || got.Slug != cake.Slug || got.Position != cake.Position {
				t.Logf("FAIL: identity mismatch: %+v", got)
				return false
			}
			if got.Pricing == nil || got.Pricing.Standard < price-0.01 || got.Pricing.Standard > price+0.01 {
				t.Logf("FAIL: price mismatch. Expected %f, got %+v", price, got.Pricing)
				return false
			}
			if len(got.Allergens) != len(allergens) {
				t.Logf("FAIL: allergens mismatch. Expected %v, got %v", allergens, got.Allergens)
				return false
			}
			for i := range allergens {
				if got.Allergens[i] != allergens[i] {
					return false
				}
			}
			if got.Description.Text() != cake.Description.Text() {
				t.Logf("FAIL: description mismatch. Expected %q, got %q", cake.Description.Text(), got.Description.Text())
				return false
			}
			if got.CategoryID == nil || *got.CategoryID != category.ID {
				t.Logf("FAIL: category mismatch")
				return false
			}
			if got.MainImage == nil || got.MainImage.URL != cake.MainImage.URL {
				t.Logf("FAIL: image mismatch")
				return false
			}
			return !got.CreatedAt.IsZero()
		},
		gen.RegexMatch(`[A-Za-z][A-Za-z ]{2,40}`),
		gen.Float64Range(0.5, 999.99),
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCakeRepository_OptionalFieldsStayAbsent(t *testing.T) {
	repo := NewCakeRepository(testDB)
	ctx := context.Background()

	cake := newTestCake("Napoleon", newPosition())
	require.NoError(t, repo.Create(ctx, cake))

	got, err := repo.FindBySlug(ctx, cake.Slug)
	require.NoError(t, err)

	assert.Equal(t, cake.ID, got.ID)
	assert.Nil(t, got.Pricing)
	assert.Nil(t, got.MainImage)
	assert.Nil(t, got.CategoryID)
	assert.Empty(t, got.Allergens)
	assert.True(t, got.Description.IsEmpty())
}

func TestCakeRepository_NotFound(t *testing.T) {
	repo := NewCakeRepository(testDB)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCakeNotFound)

	_, err = repo.FindBySlug(ctx, "no-such-cake")
	assert.ErrorIs(t, err, ErrCakeNotFound)
}

func TestCakeRepository_DuplicatePosition(t *testing.T) {
	repo := NewCakeRepository(testDB)
	ctx := context.Background()

	position := newPosition()
	require.NoError(t, repo.Create(ctx, newTestCake("Kyiv Cake", position)))

	err := repo.Create(ctx, newTestCake("Kyiv Cake Copy", position))
	assert.ErrorIs(t, err, ErrCakeAlreadyExists)
}

// Feature: structured-data, Property 13: Catalog listing follows persisted position
func TestProperty_ListOrderedFollowsPosition(t *testing.T) {
	repo := NewCakeRepository(testDB)

	properties := gopter.NewProperties(nil)

	properties.Property("cakes come back sorted by position", prop.ForAll(
		func(count int) bool {
			ctx := context.Background()

			// insert in descending position order
			positions := make([]int, count)
			for i := range positions {
				positions[i] = newPosition()
			}
			for i := count - 1; i >= 0; i-- {
				cake := newTestCake("Medovik", positions[i])
				if err := repo.Create(ctx, cake); err != nil {
					t.Logf("FAIL: Failed to create cake: %v", err)
					return false
				}
				defer testDB.Exec("DELETE FROM cakes WHERE id = $1", cake.ID)
			}

			cakes, err := repo.ListOrdered(ctx)
			if err != nil {
				t.Logf("FAIL: Failed to list cakes: %v", err)
				return false
			}
			for i := 1; i < len(cakes); i++ {
				if cakes[i-1].Position >= cakes[i].Position {
					t.Logf("FAIL: position %d listed before %d", cakes[i-1].Position, cakes[i].Position)
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCategoryRepository(t *testing.T) {
	repo := NewCategoryRepository(testDB)
	ctx := context.Background()

	category := newTestCategory(t)

	got, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.Name, got.Name)
	assert.Equal(t, category.Slug, got.Slug)

	assert.ErrorIs(t, repo.Create(ctx, category), ErrCategoryAlreadyExists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func TestCakeRepository_PositionOutsideSKURange(t *testing.T) {
	repo := NewCakeRepository(testDB)
	ctx := context.Background()

	for _, position := range []int{-1, 999} {
		err := repo.Create(ctx, newTestCake("Kyiv Cake", position))
		assert.Error(t, err, "position %d", position)
	}
}
