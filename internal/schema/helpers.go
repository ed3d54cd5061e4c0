package schema

import (
	"strings"

	"olgish-cakes/internal/domain"
)

// LocalBusiness is the schema.org Bakery document for the business itself
type LocalBusiness struct {
	Context                   string           `json:"@context"`
	Type                      string           `json:"@type"`
	ID                        string           `json:"@id"`
	Name                      string           `json:"name"`
	LegalName                 string           `json:"legalName,omitempty"`
	URL                       string           `json:"url"`
	Logo                      string           `json:"logo,omitempty"`
	Image                     []string         `json:"image,omitempty"`
	Telephone                 string           `json:"telephone,omitempty"`
	Email                     string           `json:"email,omitempty"`
	PriceRange                string           `json:"priceRange,omitempty"`
	Address                   *PostalAddress   `json:"address"`
	Geo                       *GeoCoordinates  `json:"geo,omitempty"`
	OpeningHoursSpecification []OpeningHours   `json:"openingHoursSpecification,omitempty"`
	SameAs                    []string         `json:"sameAs,omitempty"`
	AggregateRating           *AggregateRating `json:"aggregateRating,omitempty"`
}

// GeoCoordinates is a latitude/longitude pair
type GeoCoordinates struct {
	Type      string  `json:"@type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpeningHours is a schema.org OpeningHoursSpecification
type OpeningHours struct {
	Type      string   `json:"@type"`
	DayOfWeek []string `json:"dayOfWeek"`
	Opens     string   `json:"opens"`
	Closes    string   `json:"closes"`
}

// Crumb is one step of a breadcrumb trail. Path is relative to the site root.
type Crumb struct {
	Name string `json:"name" validate:"required"`
	Path string `json:"path"`
}

// ListItem is an entry of a BreadcrumbList or ItemList
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
	Item     string `json:"item,omitempty"`
	URL      string `json:"url,omitempty"`
}

// BreadcrumbList is a schema.org BreadcrumbList
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ItemList is the catalog summary page document
type ItemList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// GenerateBakerySchema builds the business document. stats feeds the
// business-wide aggregate rating.
func (b *Builder) GenerateBakerySchema(stats domain.ReviewStats) LocalBusiness {
	biz := b.settings.Business

	var hours []OpeningHours
	if len(biz.OpeningDays) > 0 {
		hours = []OpeningHours{{
			Type:      typeOpeningHours,
			DayOfWeek: append([]string(nil), biz.OpeningDays...),
			Opens:     biz.Opens,
			Closes:    biz.Closes,
		}}
	}

	var images []string
	if biz.Logo != "" {
		images = []string{biz.Logo}
	}

	return LocalBusiness{
		Context:    Context,
		Type:       typeBakery,
		ID:         b.url("/#bakery"),
		Name:       biz.Name,
		LegalName:  biz.LegalName,
		URL:        biz.URL,
		Logo:       biz.Logo,
		Image:      images,
		Telephone:  biz.Telephone,
		Email:      biz.Email,
		PriceRange: biz.PriceRange,
		Address:    b.address(),
		Geo: &GeoCoordinates{
			Type:      typeGeoCoordinates,
			Latitude:  biz.Latitude,
			Longitude: biz.Longitude,
		},
		OpeningHoursSpecification: hours,
		SameAs:                    append([]string(nil), biz.SameAs...),
		AggregateRating:           b.aggregateRating(stats),
	}
}

// GenerateBreadcrumbSchema numbers crumbs from 1 and resolves their paths
// against the site URL. The last crumb may omit its path.
func (b *Builder) GenerateBreadcrumbSchema(crumbs []Crumb) BreadcrumbList {
	items := make([]ListItem, 0, len(crumbs))
	for i, c := range crumbs {
		item := ListItem{
			Type:     typeListItem,
			Position: i + 1,
			Name:     collapseWhitespace(c.Name),
		}
		if c.Path != "" {
			item.Item = b.url("/" + strings.TrimLeft(c.Path, "/"))
		}
		items = append(items, item)
	}

	return BreadcrumbList{
		Context:         Context,
		Type:            typeBreadcrumbList,
		ItemListElement: items,
	}
}

// GenerateItemListSchema summarises built products for the catalog page
func (b *Builder) GenerateItemListSchema(products []Product) ItemList {
	items := make([]ListItem, 0, len(products))
	for i, p := range products {
		items = append(items, ListItem{
			Type:     typeListItem,
			Position: i + 1,
			Name:     p.Name,
			URL:      p.URL,
		})
	}

	return ItemList{
		Context:         Context,
		Type:            typeItemList,
		Name:            b.settings.Business.Name + " " + b.settings.CategoryName,
		URL:             b.url("/cakes"),
		NumberOfItems:   len(items),
		ItemListElement: items,
	}
}
