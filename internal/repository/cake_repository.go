package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"olgish-cakes/internal/domain"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrCakeNotFound      = errors.New("cake not found")
	ErrCakeAlreadyExists = errors.New("cake with this slug or position already exists")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CakeRepository defines the interface for cake data access
type CakeRepository interface {
	Create(ctx context.Context, cake *domain.Cake) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Cake, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Cake, error)
	ListOrdered(ctx context.Context) ([]*domain.Cake, error)
}

type cakeRepository struct {
	db *sql.DB
}

// NewCakeRepository creates a new instance of CakeRepository
func NewCakeRepository(db *sql.DB) CakeRepository {
	return &cakeRepository{db: db}
}

const cakeColumns = `id, name, slug, description, description_blocks, price, allergens, ingredients,
		image_url, image_alt, category_id, position, created_at, updated_at`

// Create inserts a cake. List fields and description blocks are stored as JSONB.
func (r *cakeRepository) Create(ctx context.Context, cake *domain.Cake) error {
	blocks, err := marshalJSONB(cake.Description.Blocks)
	if err != nil {
		return fmt.Errorf("failed to encode description blocks: %w", err)
	}
	allergens, err := marshalJSONB(cake.Allergens)
	if err != nil {
		return fmt.Errorf("failed to encode allergens: %w", err)
	}
	ingredients, err := marshalJSONB(cake.Ingredients)
	if err != nil {
		return fmt.Errorf("failed to encode ingredients: %w", err)
	}

	var price sql.NullFloat64
	if cake.Pricing != nil {
		price = sql.NullFloat64{Float64: cake.Pricing.Standard, Valid: true}
	}

	var imageURL, imageAlt string
	if cake.MainImage != nil {
		imageURL, imageAlt = cake.MainImage.URL, cake.MainImage.Alt
	}

	query := `
		INSERT INTO cakes (` + cakeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		cake.ID,
		cake.Name,
		cake.Slug,
		cake.Description.Plain,
		blocks,
		price,
		allergens,
		ingredients,
		imageURL,
		imageAlt,
		cake.CategoryID,
		cake.Position,
		cake.CreatedAt,
		cake.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrCakeAlreadyExists
		}
		return fmt.Errorf("failed to create cake: %w", err)
	}

	return nil
}

// FindByID retrieves a cake by ID
func (r *cakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Cake, error) {
	query := `SELECT ` + cakeColumns + ` FROM cakes WHERE id = $1`

	cake, err := scanCake(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCakeNotFound
		}
		return nil, fmt.Errorf("failed to find cake by ID: %w", err)
	}

	return cake, nil
}

// FindBySlug retrieves the cake published at /cakes/{slug}
func (r *cakeRepository) FindBySlug(ctx context.Context, slug string) (*domain.Cake, error) {
	query := `SELECT ` + cakeColumns + ` FROM cakes WHERE slug = $1`

	cake, err := scanCake(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCakeNotFound
		}
		return nil, fmt.Errorf("failed to find cake by slug: %w", err)
	}

	return cake, nil
}

// ListOrdered returns the whole catalog in position order
func (r *cakeRepository) ListOrdered(ctx context.Context) ([]*domain.Cake, error) {
	query := `SELECT ` + cakeColumns + ` FROM cakes ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list cakes: %w", err)
	}
	defer rows.Close()

	cakes := []*domain.Cake{}
	for rows.Next() {
		cake, err := scanCake(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cake: %w", err)
		}
		cakes = append(cakes, cake)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cakes: %w", err)
	}

	return cakes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCake(row rowScanner) (*domain.Cake, error) {
	var (
		cake                       domain.Cake
		blocks, allergens, ingreds []byte
		price                      sql.NullFloat64
		imageURL, imageAlt         string
		categoryID                 uuid.NullUUID
	)

	err := row.Scan(
		&cake.ID,
		&cake.Name,
		&cake.Slug,
		&cake.Description.Plain,
		&blocks,
		&price,
		&allergens,
		&ingreds,
		&imageURL,
		&imageAlt,
		&categoryID,
		&cake.Position,
		&cake.CreatedAt,
		&cake.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONB(blocks, &cake.Description.Blocks); err != nil {
		return nil, fmt.Errorf("failed to decode description blocks: %w", err)
	}
	if err := unmarshalJSONB(allergens, &cake.Allergens); err != nil {
		return nil, fmt.Errorf("failed to decode allergens: %w", err)
	}
	if err := unmarshalJSONB(ingreds, &cake.Ingredients); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}

	if price.Valid {
		cake.Pricing = &domain.Pricing{Standard: price.Float64}
	}
	if imageURL != "" {
		cake.MainImage = &domain.Image{URL: imageURL, Alt: imageAlt}
	}
	if categoryID.Valid {
		id := categoryID.UUID
		cake.CategoryID = &id
	}

	return &cake, nil
}

// marshalJSONB stores nil slices as an empty array so the NOT NULL default holds
func marshalJSONB(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return []byte("[]"), nil
	}
	return data, nil
}

func unmarshalJSONB(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
