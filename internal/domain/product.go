package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cake is a catalog product as published by the CMS. Only Name is required;
// every other field may be absent and is defaulted by the schema builder.
type Cake struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" validate:"required,min=3,max=150"`
	Slug        string     `json:"slug,omitempty" db:"slug"`
	Pricing     *Pricing   `json:"pricing,omitempty"`
	Allergens   []string   `json:"allergens,omitempty" db:"allergens"`
	Ingredients []string   `json:"ingredients,omitempty" db:"ingredients"`
	MainImage   *Image     `json:"mainImage,omitempty"`
	Description RichText   `json:"description,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	Position    int        `json:"position" db:"position" validate:"gte=0,lte=998"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Pricing holds the price points a cake is sold at
type Pricing struct {
	Standard float64 `json:"standard" validate:"gte=0"`
}

// Image references the main product image
type Image struct {
	URL string `json:"url" validate:"omitempty,url"`
	Alt string `json:"alt,omitempty"`
}

// Category represents a cake category
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// RichText is a description that is either plain text or a list of
// portable-text blocks. Blocks win when both are set.
type RichText struct {
	Plain  string  `json:"plain,omitempty"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is one paragraph of portable text
type Block struct {
	Style    string `json:"style,omitempty"`
	Children []Span `json:"children"`
}

// Span is a run of text inside a block
type Span struct {
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Text flattens the description into plain text, one line per block.
func (rt RichText) Text() string {
	if len(rt.Blocks) == 0 {
		return rt.Plain
	}

	paragraphs := make([]string, 0, len(rt.Blocks))
	for _, block := range rt.Blocks {
		var sb strings.Builder
		for _, span := range block.Children {
			sb.WriteString(span.Text)
		}
		if p := strings.TrimSpace(sb.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	return strings.Join(paragraphs, "\n")
}

// IsEmpty reports whether the description carries no text at all
func (rt RichText) IsEmpty() bool {
	return strings.TrimSpace(rt.Text()) == ""
}
