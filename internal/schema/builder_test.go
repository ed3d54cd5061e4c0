package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"olgish-cakes/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 18, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newTestBuilder() *Builder {
	return NewBuilder(DefaultSettings(), WithClock(fixedClock))
}

func newTestValidator() *Validator {
	return NewValidator(DefaultSettings(), nil, WithClock(fixedClock))
}

func TestGenerateProductSchema_HoneyCake(t *testing.T) {
	b := newTestBuilder()

	record := domain.Cake{
		Name:      "Test Honey Cake",
		Pricing:   &domain.Pricing{Standard: 35},
		Allergens: []string{"Eggs", "Dairy"},
	}
	stats := domain.ReviewStats{Count: 10, AverageRating: 4.5}

	p := b.GenerateProductSchema(record, 0, stats)

	assert.Equal(t, "OC-TEST-HONEY-CAKE-001", p.SKU)
	require.NotNil(t, p.Offers)
	assert.Equal(t, "35", p.Offers.Price)
	assert.Equal(t, "GBP", p.Offers.PriceCurrency)
	assert.Equal(t, InStock, p.Offers.Availability)
	assert.Equal(t, "2026-11-17", p.Offers.PriceValidUntil)
	require.NotNil(t, p.AggregateRating)
	assert.Equal(t, "4.5", p.AggregateRating.RatingValue)
	assert.Equal(t, "10", p.AggregateRating.ReviewCount)
	assert.Equal(t, []string{"Eggs", "Dairy"}, p.ContainsAllergens)

	assert.Equal(t, "https://olgishcakes.co.uk/cakes/test-honey-cake", p.URL)
	assert.Equal(t, p.URL+"#product", p.ID)
	assert.Equal(t, "OCTESTHONEYCAKE-35", p.MPN)
	assert.Equal(t, []string{DefaultSettings().FallbackImageURL}, p.Image)
	assert.Contains(t, p.Description, "Test Honey Cake")

	require.Len(t, p.AdditionalProperty, 1)
	assert.Equal(t, "Allergens", p.AdditionalProperty[0].Name)
	assert.Equal(t, "Eggs, Dairy", p.AdditionalProperty[0].Value)

	assert.True(t, newTestValidator().ValidateProductSchema(&p).IsValid)
}

func TestGenerateProductSchema_Defaults(t *testing.T) {
	b := newTestBuilder()
	s := b.Settings()

	p := b.GenerateProductSchema(domain.Cake{Name: "Napoleon"}, 3, domain.ReviewStats{})

	assert.Equal(t, "OC-NAPOLEON-004", p.SKU)
	assert.Equal(t, FormatPrice(s.FallbackPrice), p.Offers.Price)
	assert.Nil(t, p.ContainsAllergens)
	assert.Nil(t, p.AdditionalProperty)
	assert.Equal(t, "1", p.AggregateRating.ReviewCount)
	assert.Equal(t, "5.0", p.AggregateRating.RatingValue)
	assert.Len(t, p.Review, len(s.Reviews))
	assert.Equal(t, s.Nutrition.Calories, p.Nutrition.Calories)
	assert.Equal(t, 14, p.Offers.HasMerchantReturnPolicy.MerchantReturnDays)
	assert.Equal(t, "0", p.Offers.ShippingDetails.ShippingRate.Value)

	// Empty optional collections are omitted from the JSON-LD entirely.
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "containsAllergens")
	assert.NotContains(t, string(raw), "additionalProperty")
}

func TestGenerateProductSchema_RichTextAndImage(t *testing.T) {
	b := newTestBuilder()

	record := domain.Cake{
		Name:        "Kyiv Cake",
		Slug:        "kyiv-cake-classic",
		Ingredients: []string{"Hazelnuts", " Meringue ", ""},
		MainImage:   &domain.Image{URL: "https://cdn.example.com/kyiv.jpg"},
		Pricing:     &domain.Pricing{Standard: -4},
		Description: domain.RichText{Blocks: []domain.Block{
			{Children: []domain.Span{{Text: "Crunchy   meringue layers"}, {Text: " with <b>hazelnut</b> cream."}}},
			{Children: []domain.Span{{Text: "Made in Leeds."}}},
		}},
	}

	p := b.GenerateProductSchema(record, 0, domain.ReviewStats{})

	assert.Equal(t, "https://olgishcakes.co.uk/cakes/kyiv-cake-classic", p.URL)
	assert.Equal(t, []string{"https://cdn.example.com/kyiv.jpg"}, p.Image)
	assert.Equal(t, "Crunchy meringue layers with hazelnut cream. Made in Leeds.", p.Description)
	assert.Equal(t, FormatPrice(b.Settings().FallbackPrice), p.Offers.Price)
	require.Len(t, p.AdditionalProperty, 1)
	assert.Equal(t, "Hazelnuts, Meringue", p.AdditionalProperty[0].Value)
}

func TestGenerateProductSchema_ComparisonSignsSurvive(t *testing.T) {
	b := newTestBuilder()

	record := domain.Cake{
		Name:        "Honey Cake",
		Description: domain.RichText{Plain: "Serves 8 when weight < 2kg and > 1kg, <em>lovely</em>."},
	}
	p := b.GenerateProductSchema(record, 0, domain.ReviewStats{})

	assert.Equal(t, "Serves 8 when weight < 2kg and > 1kg, lovely .", p.Description)
}

func TestGenerateProductSchema_SequenceBoundary(t *testing.T) {
	b := newTestBuilder()
	v := newTestValidator()

	last := b.GenerateProductSchema(domain.Cake{Name: "Honey Cake"}, MaxSKUIndex, domain.ReviewStats{})
	assert.Equal(t, "OC-HONEY-CAKE-999", last.SKU)
	assert.True(t, v.ValidateProductSchema(&last).IsValid)

	over := b.GenerateProductSchema(domain.Cake{Name: "Honey Cake"}, MaxSKUIndex+1, domain.ReviewStats{})
	assert.Equal(t, []string{"SKU must end with a 3-digit sequence number"}, v.ValidateProductSchema(&over).Errors)
}

func TestGenerateProductSchema_IncompleteReviews(t *testing.T) {
	b := newTestBuilder()
	v := newTestValidator()

	stats := domain.ReviewStats{
		Count:         3,
		AverageRating: 4.5,
		Recent: []domain.Review{
			{Author: "  ", Rating: 5, Body: "Beautiful medovik"},
			{Author: "Ivan", Rating: 4, Body: " "},
		},
	}
	p := b.GenerateProductSchema(domain.Cake{Name: "Medovik"}, 0, stats)

	require.Len(t, p.Review, 1)
	assert.Equal(t, AnonymousReviewer, p.Review[0].Author.Name)
	assert.True(t, v.ValidateReviewSchema(&p.Review[0]).IsValid)

	stats.Recent = stats.Recent[1:]
	p = b.GenerateProductSchema(domain.Cake{Name: "Medovik"}, 0, stats)
	assert.Len(t, p.Review, len(b.Settings().Reviews))
}

func TestGenerateProductSchema_LongDescriptionIsCapped(t *testing.T) {
	b := newTestBuilder()

	record := domain.Cake{
		Name:        "Medovik",
		Description: domain.RichText{Plain: strings.Repeat("honey ", 2000)},
	}
	p := b.GenerateProductSchema(record, 0, domain.ReviewStats{})

	assert.LessOrEqual(t, len([]rune(p.Description)), MaxDescriptionLength)
	assert.True(t, newTestValidator().ValidateProductSchema(&p).IsValid)
}

func TestGenerateProductSchema_RecentReviews(t *testing.T) {
	b := newTestBuilder()

	stats := domain.ReviewStats{
		Count:         2,
		AverageRating: 7,
		Recent: []domain.Review{
			{Author: "Olena", Rating: 5, Body: "Best honey cake in Leeds", CreatedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
			{Author: "Mark", Rating: 9, Body: "Lovely"},
		},
	}
	p := b.GenerateProductSchema(domain.Cake{Name: "Honey Cake"}, 0, stats)

	require.Len(t, p.Review, 2)
	assert.Equal(t, "Olena", p.Review[0].Author.Name)
	assert.Equal(t, "2026-09-01", p.Review[0].DatePublished)
	assert.Equal(t, "5", p.Review[1].ReviewRating.RatingValue)
	assert.Equal(t, "2026-10-18", p.Review[1].DatePublished)
	assert.Equal(t, "5.0", p.AggregateRating.RatingValue)

	v := newTestValidator()
	for i := range p.Review {
		assert.True(t, v.ValidateReviewSchema(&p.Review[i]).IsValid)
	}
}

func TestGenerateProductSchema_MissingName(t *testing.T) {
	b := newTestBuilder()

	p := b.GenerateProductSchema(domain.Cake{}, 0, domain.ReviewStats{})

	assert.Equal(t, "OC-PRODUCT-001", p.SKU)
	assert.Equal(t, b.Settings().FallbackName, p.Name)
	assert.True(t, newTestValidator().ValidateProductSchema(&p).IsValid)
}

func TestGenerateAllProductSchemas(t *testing.T) {
	b := newTestBuilder()

	records := []domain.Cake{{Name: "Honey Cake"}, {Name: "Kyiv Cake"}, {Name: "Napoleon"}}
	schemas := b.GenerateAllProductSchemas(records, domain.ReviewStats{Count: 3, AverageRating: 4.7})

	require.Len(t, schemas, 3)
	assert.Equal(t, "OC-HONEY-CAKE-001", schemas[0].SKU)
	assert.Equal(t, "OC-KYIV-CAKE-002", schemas[1].SKU)
	assert.Equal(t, "OC-NAPOLEON-003", schemas[2].SKU)
	assert.True(t, ValidateMPNUniqueness(schemas).IsValid)
}

func TestSettingsOverride(t *testing.T) {
	s := DefaultSettings()
	s.SKUPrefix = "TST"
	s.PriceValidityDays = 7
	s.Nutrition.Calories = "410 calories"

	p := NewBuilder(s, WithClock(fixedClock)).GenerateProductSchema(domain.Cake{Name: "Honey"}, 0, domain.ReviewStats{})

	assert.Equal(t, "TST-HONEY-001", p.SKU)
	assert.Equal(t, "2026-10-25", p.Offers.PriceValidUntil)
	assert.Equal(t, "410 calories", p.Nutrition.Calories)
}

func cakeGen() gopter.Gen {
	return gopter.CombineGens(
		gen.RegexMatch(`[A-Za-z]{3}[A-Za-z0-9 ']{0,60}`),
		gen.Float64Range(0, 9999.99),
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AlphaString()),
		gen.AnyString(),
	).Map(func(values []interface{}) domain.Cake {
		return domain.Cake{
			Name:        values[0].(string),
			Pricing:     &domain.Pricing{Standard: values[1].(float64)},
			Allergens:   values[2].([]string),
			Ingredients: values[3].([]string),
			Description: domain.RichText{Plain: values[4].(string)},
		}
	})
}

// Feature: structured-data, Property 5: Built schemas pass validation
func TestProperty_BuiltSchemasAreValid(t *testing.T) {
	b := newTestBuilder()
	v := newTestValidator()

	properties := gopter.NewProperties(nil)

	properties.Property("builder output always validates", prop.ForAll(
		func(record domain.Cake, index int, count int, avg float64) bool {
			p := b.GenerateProductSchema(record, index, domain.ReviewStats{Count: count, AverageRating: avg})
			res := v.ValidateProductSchema(&p)
			if !res.IsValid {
				t.Logf("FAIL: %q: %v", record.Name, res.Errors)
			}
			return res.IsValid
		},
		cakeGen(),
		gen.IntRange(-5, MaxSKUIndex),
		gen.IntRange(0, 500),
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: structured-data, Property 6: Every schema carries offers, review or aggregateRating
func TestProperty_SchemasCarryRichResultData(t *testing.T) {
	b := newTestBuilder()

	properties := gopter.NewProperties(nil)

	properties.Property("offers, review or aggregateRating is always present", prop.ForAll(
		func(name string) bool {
			p := b.GenerateProductSchema(domain.Cake{Name: name}, 0, domain.ReviewStats{})
			return p.Offers != nil || len(p.Review) > 0 || p.AggregateRating != nil
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: structured-data, Property 7: Building is deterministic for a fixed day
func TestProperty_BuilderIsDeterministic(t *testing.T) {
	b := newTestBuilder()

	properties := gopter.NewProperties(nil)

	properties.Property("same inputs give identical schemas", prop.ForAll(
		func(record domain.Cake, index int, count int) bool {
			stats := domain.ReviewStats{Count: count, AverageRating: 4.2}
			first := b.GenerateProductSchema(record, index, stats)
			second := b.GenerateProductSchema(record, index, stats)
			return reflect.DeepEqual(first, second)
		},
		cakeGen(),
		gen.IntRange(0, 998),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
