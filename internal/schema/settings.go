package schema

// Settings is the constants surface the builder and validator work from.
// DefaultSettings returns the production values; tests and config overlay
// individual fields.
type Settings struct {
	SKUPrefix         string
	MaxSlugLength     int
	SequenceWidth     int
	PriceValidityDays int
	Currency          string
	Availability      string
	FallbackPrice     float64
	FallbackImageURL  string
	FallbackName      string
	MinReviewCount    int
	DefaultRating     float64
	Rating            RatingBounds
	MaxPrice          float64
	BaseURL           string
	CategoryName      string
	Business          Business
	Nutrition         NutritionDefaults
	Delivery          DeliveryDefaults
	Returns           ReturnDefaults
	Reviews           []DefaultReview
}

// RatingBounds is the allowed range of a rating value
type RatingBounds struct {
	Worst float64
	Best  float64
}

// Business is the identity and address used for brand, seller and the
// Bakery document.
type Business struct {
	Name        string
	LegalName   string
	URL         string
	Telephone   string
	Email       string
	Logo        string
	PriceRange  string
	Street      string
	Locality    string
	Region      string
	PostalCode  string
	Country     string
	Latitude    float64
	Longitude   float64
	OpeningDays []string
	Opens       string
	Closes      string
	SameAs      []string
}

// NutritionDefaults is the per-serving nutrition block shared by every cake
type NutritionDefaults struct {
	ServingSize         string
	Calories            string
	FatContent          string
	CarbohydrateContent string
	SugarContent        string
	ProteinContent      string
}

// DeliveryDefaults holds shipping terms in days
type DeliveryDefaults struct {
	ShippingCost   float64
	Country        string
	HandlingMinDay int
	HandlingMaxDay int
	TransitMinDay  int
	TransitMaxDay  int
}

// ReturnDefaults holds the merchant return policy terms
type ReturnDefaults struct {
	Country  string
	Days     int
	Category string
	Method   string
	Fees     string
}

// DefaultReview is a review published on products that have none of their own
type DefaultReview struct {
	Author        string
	Rating        int
	Body          string
	DatePublished string
}

// DefaultSettings returns the production constants
func DefaultSettings() Settings {
	return Settings{
		SKUPrefix:         "OC",
		MaxSlugLength:     15,
		SequenceWidth:     3,
		PriceValidityDays: 30,
		Currency:          "GBP",
		Availability:      InStock,
		FallbackPrice:     25,
		FallbackImageURL:  "https://olgishcakes.co.uk/images/placeholder-cake.jpg",
		FallbackName:      "Ukrainian Cake",
		MinReviewCount:    1,
		DefaultRating:     5,
		Rating:            RatingBounds{Worst: 1, Best: 5},
		MaxPrice:          10000,
		BaseURL:           "https://olgishcakes.co.uk",
		CategoryName:      "Cakes",
		Business: Business{
			Name:        "Olgish Cakes",
			LegalName:   "Olgish Cakes",
			URL:         "https://olgishcakes.co.uk",
			Telephone:   "+44 786 721 8194",
			Email:       "hello@olgishcakes.co.uk",
			Logo:        "https://olgishcakes.co.uk/images/logo.png",
			PriceRange:  "££",
			Street:      "Allerton Grange",
			Locality:    "Leeds",
			Region:      "West Yorkshire",
			PostalCode:  "LS17 6RS",
			Country:     "GB",
			Latitude:    53.8423,
			Longitude:   -1.5189,
			OpeningDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
			Opens:       "09:00",
			Closes:      "18:00",
			SameAs: []string{
				"https://www.instagram.com/olgish_cakes",
				"https://www.facebook.com/olgishcakes",
			},
		},
		Nutrition: NutritionDefaults{
			ServingSize:         "100g",
			Calories:            "350 calories",
			FatContent:          "15g",
			CarbohydrateContent: "45g",
			SugarContent:        "30g",
			ProteinContent:      "5g",
		},
		Delivery: DeliveryDefaults{
			ShippingCost:   0,
			Country:        "GB",
			HandlingMinDay: 0,
			HandlingMaxDay: 1,
			TransitMinDay:  1,
			TransitMaxDay:  2,
		},
		Returns: ReturnDefaults{
			Country:  "GB",
			Days:     14,
			Category: FiniteReturnWindow,
			Method:   ReturnByMail,
			Fees:     FreeReturn,
		},
		Reviews: []DefaultReview{
			{
				Author:        "Sarah M.",
				Rating:        5,
				Body:          "Absolutely delicious honey cake, just like the one my grandmother used to make.",
				DatePublished: "2024-11-15",
			},
			{
				Author:        "James T.",
				Rating:        5,
				Body:          "Beautiful cake for our daughter's birthday. Fresh, moist and not too sweet.",
				DatePublished: "2024-12-02",
			},
		},
	}
}
