package schema

// Context is the JSON-LD @context emitted on every top-level document
const Context = "https://schema.org"

// DateLayout is the YYYY-MM-DD form used by priceValidUntil and datePublished
const DateLayout = "2006-01-02"

// schema.org enumeration URIs and type names
const (
	InStock                  = "https://schema.org/InStock"
	NewCondition             = "https://schema.org/NewCondition"
	FiniteReturnWindow       = "https://schema.org/MerchantReturnFiniteReturnWindow"
	ReturnByMail             = "https://schema.org/ReturnByMail"
	FreeReturn               = "https://schema.org/FreeReturn"
	unitCodeDay              = "DAY"
	typeProduct              = "Product"
	typeOffer                = "Offer"
	typeAggregateRating      = "AggregateRating"
	typeReview               = "Review"
	typeRating               = "Rating"
	typePerson               = "Person"
	typeBrand                = "Brand"
	typeOrganization         = "Organization"
	typeBakery               = "Bakery"
	typePostalAddress        = "PostalAddress"
	typeNutrition            = "NutritionInformation"
	typePropertyValue        = "PropertyValue"
	typeMonetaryAmount       = "MonetaryAmount"
	typeDefinedRegion        = "DefinedRegion"
	typeShippingDetails      = "OfferShippingDetails"
	typeShippingDeliveryTime = "ShippingDeliveryTime"
	typeQuantitativeValue    = "QuantitativeValue"
	typeMerchantReturnPolicy = "MerchantReturnPolicy"
	typeBreadcrumbList       = "BreadcrumbList"
	typeListItem             = "ListItem"
	typeItemList             = "ItemList"
	typeGeoCoordinates       = "GeoCoordinates"
	typeOpeningHours         = "OpeningHoursSpecification"
)

// Product is a schema.org Product document. Values are built fresh by the
// Builder and must not be mutated after construction.
type Product struct {
	Context            string                `json:"@context,omitempty"`
	Type               string                `json:"@type"`
	ID                 string                `json:"@id,omitempty"`
	Name               string                `json:"name"`
	Description        string                `json:"description"`
	Image              []string              `json:"image"`
	URL                string                `json:"url,omitempty"`
	SKU                string                `json:"sku"`
	MPN                string                `json:"mpn"`
	Category           string                `json:"category,omitempty"`
	Brand              *Brand                `json:"brand,omitempty"`
	Manufacturer       *Organization         `json:"manufacturer,omitempty"`
	Offers             *Offer                `json:"offers,omitempty"`
	AggregateRating    *AggregateRating      `json:"aggregateRating,omitempty"`
	Review             []Review              `json:"review,omitempty"`
	Nutrition          *NutritionInformation `json:"nutrition,omitempty"`
	AdditionalProperty []PropertyValue       `json:"additionalProperty,omitempty"`
	ContainsAllergens  []string              `json:"containsAllergens,omitempty"`
}

// Brand names the product brand
type Brand struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Organization is the seller or manufacturer
type Organization struct {
	Type    string         `json:"@type"`
	Name    string         `json:"name"`
	URL     string         `json:"url,omitempty"`
	Address *PostalAddress `json:"address,omitempty"`
}

// PostalAddress is a schema.org PostalAddress
type PostalAddress struct {
	Type            string `json:"@type"`
	StreetAddress   string `json:"streetAddress,omitempty"`
	AddressLocality string `json:"addressLocality,omitempty"`
	AddressRegion   string `json:"addressRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
	AddressCountry  string `json:"addressCountry"`
}

// Offer is the single offer attached to a product
type Offer struct {
	Type                    string                `json:"@type"`
	URL                     string                `json:"url,omitempty"`
	Price                   string                `json:"price"`
	PriceCurrency           string                `json:"priceCurrency"`
	Availability            string                `json:"availability"`
	ItemCondition           string                `json:"itemCondition,omitempty"`
	PriceValidUntil         string                `json:"priceValidUntil"`
	Seller                  *Organization         `json:"seller,omitempty"`
	ShippingDetails         *ShippingDetails      `json:"shippingDetails,omitempty"`
	HasMerchantReturnPolicy *MerchantReturnPolicy `json:"hasMerchantReturnPolicy,omitempty"`
}

// MonetaryAmount is a value in a currency
type MonetaryAmount struct {
	Type     string `json:"@type"`
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// DefinedRegion is a shipping destination
type DefinedRegion struct {
	Type           string `json:"@type"`
	AddressCountry string `json:"addressCountry"`
}

// QuantitativeValue is a min/max range with a unit
type QuantitativeValue struct {
	Type     string `json:"@type"`
	MinValue int    `json:"minValue"`
	MaxValue int    `json:"maxValue"`
	UnitCode string `json:"unitCode"`
}

// ShippingDeliveryTime splits delivery into handling and transit
type ShippingDeliveryTime struct {
	Type         string            `json:"@type"`
	HandlingTime QuantitativeValue `json:"handlingTime"`
	TransitTime  QuantitativeValue `json:"transitTime"`
}

// ShippingDetails is a schema.org OfferShippingDetails
type ShippingDetails struct {
	Type                string               `json:"@type"`
	ShippingRate        MonetaryAmount       `json:"shippingRate"`
	ShippingDestination DefinedRegion        `json:"shippingDestination"`
	DeliveryTime        ShippingDeliveryTime `json:"deliveryTime"`
}

// MerchantReturnPolicy is a schema.org MerchantReturnPolicy
type MerchantReturnPolicy struct {
	Type                 string `json:"@type"`
	ApplicableCountry    string `json:"applicableCountry"`
	ReturnPolicyCategory string `json:"returnPolicyCategory"`
	MerchantReturnDays   int    `json:"merchantReturnDays"`
	ReturnMethod         string `json:"returnMethod"`
	ReturnFees           string `json:"returnFees"`
}

// AggregateRating summarises all reviews of a product. Values are strings
// as Google expects them.
type AggregateRating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	ReviewCount string `json:"reviewCount"`
	BestRating  string `json:"bestRating"`
	WorstRating string `json:"worstRating"`
}

// Person is a review author
type Person struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// Rating is the rating inside a single review
type Rating struct {
	Type        string `json:"@type"`
	RatingValue string `json:"ratingValue"`
	BestRating  string `json:"bestRating"`
	WorstRating string `json:"worstRating"`
}

// Review is a single schema.org Review
type Review struct {
	Type          string  `json:"@type"`
	Author        *Person `json:"author,omitempty"`
	ReviewRating  *Rating `json:"reviewRating,omitempty"`
	ReviewBody    string  `json:"reviewBody,omitempty"`
	DatePublished string  `json:"datePublished,omitempty"`
}

// NutritionInformation is the nutrition block shared by every cake
type NutritionInformation struct {
	Type                string `json:"@type"`
	ServingSize         string `json:"servingSize"`
	Calories            string `json:"calories"`
	FatContent          string `json:"fatContent"`
	CarbohydrateContent string `json:"carbohydrateContent"`
	SugarContent        string `json:"sugarContent"`
	ProteinContent      string `json:"proteinContent"`
}

// PropertyValue is a named extra attribute
type PropertyValue struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ValidationResult is the outcome of a single validation call
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// UniquenessResult reports MPNs used by more than one schema
type UniquenessResult struct {
	IsValid    bool     `json:"isValid"`
	Duplicates []string `json:"duplicates"`
}
