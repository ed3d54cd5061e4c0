package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"olgish-cakes/internal/domain"
)

const (
	// Description length bounds accepted by Search Console
	MinDescriptionLength = 10
	MaxDescriptionLength = 5000

	// Name length bounds accepted by Search Console
	MinNameLength = 3
	MaxNameLength = 150

	// AnonymousReviewer names reviews submitted without an author
	AnonymousReviewer = "Verified Customer"
)

// htmlTags only matches real tags so comparison signs in copy survive
var htmlTags = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// Option configures a Builder or Validator
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, which drives priceValidUntil and the
// validator's notion of today.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Builder assembles schema.org documents from catalog records. It holds no
// mutable state and is safe for concurrent use.
type Builder struct {
	settings Settings
	now      func() time.Time
}

// NewBuilder creates a Builder over the given settings
func NewBuilder(settings Settings, opts ...Option) *Builder {
	o := applyOptions(opts)
	return &Builder{
		settings: settings,
		now:      o.now,
	}
}

// Settings returns the constants the builder was created with
func (b *Builder) Settings() Settings {
	return b.settings
}

// GenerateProductSchema builds the Product document for one cake. index is
// the cake's position in its batch and feeds the SKU sequence number.
// Missing optional fields are defaulted; the call never fails.
func (b *Builder) GenerateProductSchema(record domain.Cake, index int, stats domain.ReviewStats) Product {
	s := b.settings

	name := collapseWhitespace(record.Name)
	if name == "" {
		name = s.FallbackName
	}

	price := b.resolvePrice(record.Pricing)
	productURL := b.ProductURL(record.Slug, name)
	allergens := cleanList(record.Allergens)
	ingredients := cleanList(record.Ingredients)

	return Product{
		Context:            Context,
		Type:               typeProduct,
		ID:                 productURL + "#product",
		Name:               name,
		Description:        b.description(name, record.Description),
		Image:              b.images(record.MainImage),
		URL:                productURL,
		SKU:                generateSKU(s.SKUPrefix, s.MaxSlugLength, s.SequenceWidth, record.Name, index),
		MPN:                generateMPN(s.SKUPrefix, name, price),
		Category:           s.CategoryName,
		Brand:              b.brand(),
		Manufacturer:       b.organization(),
		Offers:             b.offer(productURL, price),
		AggregateRating:    b.aggregateRating(stats),
		Review:             b.reviews(stats.Recent),
		Nutrition:          b.nutrition(),
		AdditionalProperty: additionalProperties(ingredients, allergens),
		ContainsAllergens:  allergens,
	}
}

// GenerateAllProductSchemas builds one document per record, using each
// record's list position as its SKU index. Callers must keep the order stable.
func (b *Builder) GenerateAllProductSchemas(records []domain.Cake, stats domain.ReviewStats) []Product {
	schemas := make([]Product, 0, len(records))
	for i, record := range records {
		schemas = append(schemas, b.GenerateProductSchema(record, i, stats))
	}
	return schemas
}

// ProductURL is the canonical page of a cake
func (b *Builder) ProductURL(slug, name string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(name)
	}
	return b.url("/cakes/" + slug)
}

func (b *Builder) url(path string) string {
	return strings.TrimRight(b.settings.BaseURL, "/") + path
}

// resolvePrice treats a missing, non-positive or non-finite price as absent
func (b *Builder) resolvePrice(p *domain.Pricing) float64 {
	if p == nil || p.Standard <= 0 || math.IsNaN(p.Standard) || math.IsInf(p.Standard, 0) {
		return b.settings.FallbackPrice
	}
	return p.Standard
}

func (b *Builder) description(name string, rt domain.RichText) string {
	text := collapseWhitespace(htmlTags.ReplaceAllString(rt.Text(), " "))

	if utf8.RuneCountInString(text) < MinDescriptionLength {
		biz := b.settings.Business
		return fmt.Sprintf("%s is a handmade Ukrainian cake from %s, baked fresh to order in %s.", name, biz.Name, biz.Locality)
	}

	if utf8.RuneCountInString(text) > MaxDescriptionLength {
		text = strings.TrimSpace(string([]rune(text)[:MaxDescriptionLength]))
	}

	return text
}

func (b *Builder) images(img *domain.Image) []string {
	if img == nil || strings.TrimSpace(img.URL) == "" {
		return []string{b.settings.FallbackImageURL}
	}
	return []string{strings.TrimSpace(img.URL)}
}

func (b *Builder) brand() *Brand {
	return &Brand{Type: typeBrand, Name: b.settings.Business.Name}
}

func (b *Builder) organization() *Organization {
	biz := b.settings.Business
	return &Organization{
		Type:    typeOrganization,
		Name:    biz.Name,
		URL:     biz.URL,
		Address: b.address(),
	}
}

func (b *Builder) address() *PostalAddress {
	biz := b.settings.Business
	return &PostalAddress{
		Type:            typePostalAddress,
		StreetAddress:   biz.Street,
		AddressLocality: biz.Locality,
		AddressRegion:   biz.Region,
		PostalCode:      biz.PostalCode,
		AddressCountry:  biz.Country,
	}
}

func (b *Builder) offer(productURL string, price float64) *Offer {
	s := b.settings
	return &Offer{
		Type:                    typeOffer,
		URL:                     productURL,
		Price:                   FormatPrice(price),
		PriceCurrency:           s.Currency,
		Availability:            s.Availability,
		ItemCondition:           NewCondition,
		PriceValidUntil:         b.now().UTC().AddDate(0, 0, s.PriceValidityDays).Format(DateLayout),
		Seller:                  b.organization(),
		ShippingDetails:         b.shipping(),
		HasMerchantReturnPolicy: b.returnPolicy(),
	}
}

func (b *Builder) shipping() *ShippingDetails {
	d := b.settings.Delivery
	return &ShippingDetails{
		Type: typeShippingDetails,
		ShippingRate: MonetaryAmount{
			Type:     typeMonetaryAmount,
			Value:    FormatPrice(d.ShippingCost),
			Currency: b.settings.Currency,
		},
		ShippingDestination: DefinedRegion{
			Type:           typeDefinedRegion,
			AddressCountry: d.Country,
		},
		DeliveryTime: ShippingDeliveryTime{
			Type: typeShippingDeliveryTime,
			HandlingTime: QuantitativeValue{
				Type:     typeQuantitativeValue,
				MinValue: d.HandlingMinDay,
				MaxValue: d.HandlingMaxDay,
				UnitCode: unitCodeDay,
			},
			TransitTime: QuantitativeValue{
				Type:     typeQuantitativeValue,
				MinValue: d.TransitMinDay,
				MaxValue: d.TransitMaxDay,
				UnitCode: unitCodeDay,
			},
		},
	}
}

func (b *Builder) returnPolicy() *MerchantReturnPolicy {
	r := b.settings.Returns
	return &MerchantReturnPolicy{
		Type:                 typeMerchantReturnPolicy,
		ApplicableCountry:    r.Country,
		ReturnPolicyCategory: r.Category,
		MerchantReturnDays:   r.Days,
		ReturnMethod:         r.Method,
		ReturnFees:           r.Fees,
	}
}

// aggregateRating never reports zero reviews: an empty count falls back to
// MinReviewCount and an unusable average to DefaultRating.
func (b *Builder) aggregateRating(stats domain.ReviewStats) *AggregateRating {
	s := b.settings

	rating := stats.AverageRating
	if stats.Count <= 0 || math.IsNaN(rating) || rating <= 0 {
		rating = s.DefaultRating
	}
	rating = clamp(rating, s.Rating.Worst, s.Rating.Best)

	count := stats.Count
	if count <= 0 {
		count = s.MinReviewCount
	}

	return &AggregateRating{
		Type:        typeAggregateRating,
		RatingValue: strconv.FormatFloat(rating, 'f', 1, 64),
		ReviewCount: strconv.Itoa(count),
		BestRating:  formatBound(s.Rating.Best),
		WorstRating: formatBound(s.Rating.Worst),
	}
}

func (b *Builder) reviews(recent []domain.Review) []Review {
	if len(recent) == 0 {
		return b.defaultReviews()
	}

	today := b.now().UTC().Format(DateLayout)
	reviews := make([]Review, 0, len(recent))
	for _, r := range recent {
		if collapseWhitespace(r.Body) == "" {
			continue
		}

		author := r.Author
		if collapseWhitespace(author) == "" {
			author = AnonymousReviewer
		}

		published := today
		if !r.CreatedAt.IsZero() {
			published = r.CreatedAt.UTC().Format(DateLayout)
		}
		reviews = append(reviews, b.review(author, r.Rating, r.Body, published))
	}

	if len(reviews) == 0 {
		return b.defaultReviews()
	}
	return reviews
}

func (b *Builder) defaultReviews() []Review {
	reviews := make([]Review, 0, len(b.settings.Reviews))
	for _, r := range b.settings.Reviews {
		reviews = append(reviews, b.review(r.Author, r.Rating, r.Body, r.DatePublished))
	}
	return reviews
}

func (b *Builder) review(author string, rating int, body, published string) Review {
	bounds := b.settings.Rating
	return Review{
		Type:   typeReview,
		Author: &Person{Type: typePerson, Name: collapseWhitespace(author)},
		ReviewRating: &Rating{
			Type:        typeRating,
			RatingValue: formatBound(clamp(float64(rating), bounds.Worst, bounds.Best)),
			BestRating:  formatBound(bounds.Best),
			WorstRating: formatBound(bounds.Worst),
		},
		ReviewBody:    collapseWhitespace(body),
		DatePublished: published,
	}
}

func (b *Builder) nutrition() *NutritionInformation {
	n := b.settings.Nutrition
	return &NutritionInformation{
		Type:                typeNutrition,
		ServingSize:         n.ServingSize,
		Calories:            n.Calories,
		FatContent:          n.FatContent,
		CarbohydrateContent: n.CarbohydrateContent,
		SugarContent:        n.SugarContent,
		ProteinContent:      n.ProteinContent,
	}
}

// additionalProperties omits a property entirely when its list is empty
func additionalProperties(ingredients, allergens []string) []PropertyValue {
	var props []PropertyValue
	if len(ingredients) > 0 {
		props = append(props, PropertyValue{Type: typePropertyValue, Name: "Ingredients", Value: strings.Join(ingredients, ", ")})
	}
	if len(allergens) > 0 {
		props = append(props, PropertyValue{Type: typePropertyValue, Name: "Allergens", Value: strings.Join(allergens, ", ")})
	}
	return props
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = collapseWhitespace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
