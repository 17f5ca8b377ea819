package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"product-showcase-service/internal/domain"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

const productColumns = `id, name, sku, description, price, price_visibility, category, media, specs, variations, cta, downloads, active, created_at, updated_at`

const (
	insertProductQuery = `
		INSERT INTO catalog.products
			(name, sku, description, price, price_visibility, category, media, specs, variations, cta, downloads, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id;
	`
	getProductQuery = `
		SELECT ` + productColumns + `
		FROM catalog.products
		WHERE id = $1;
	`
	listProductsByCategoryQuery = `
		SELECT ` + productColumns + `
		FROM catalog.products
		WHERE category = $1
		ORDER BY id ASC;
	`
	listReviewsByProductQuery = `
		SELECT id, product_id, user_id, user_name, rating, comment, status, created_at
		FROM catalog.reviews
		WHERE product_id = $1
		ORDER BY id ASC;
	`
	hasUserReviewedQuery = `SELECT EXISTS(SELECT 1 FROM catalog.reviews WHERE product_id = $1 AND user_id = $2);`
	// The unique constraint makes check-and-insert a single atomic statement.
	insertReviewQuery = `
		INSERT INTO catalog.reviews (product_id, user_id, user_name, rating, comment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, user_id) DO NOTHING
		RETURNING id;
	`
	insertQuoteQuery = `
		INSERT INTO catalog.quotes (product_id, product_name, user_name, user_email, user_phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id;
	`
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB, log zerolog.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// DB exposes the underlying pool for health checks and migrations.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// --- ProductReader / ProductWriter ---

func (s *PostgresStore) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	media, specs, variations, cta, downloads, err := encodeProductAttributes(product)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to encode attributes: %w", err)
	}

	err = s.db.QueryRowContext(ctx, insertProductQuery,
		product.Name, product.SKU, product.Description, product.Price, string(product.PriceVisibility),
		product.Category, media, specs, variations, cta, downloads, product.Active,
		product.DateCreated, product.DateModified,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			if strings.Contains(pqErr.Constraint, "products_sku_key") || strings.Contains(pqErr.Detail, "Key (sku)") {
				return nil, ErrProductSKUExists
			}
		}
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return &product, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(s.db.QueryRowContext(ctx, getProductQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProduct failed to scan row: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, listProductsByCategoryQuery, category)
	if err != nil {
		return nil, fmt.Errorf("store: ListProductsByCategory failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("store: ListProductsByCategory failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListProductsByCategory iteration error: %w", err)
	}
	return products, nil
}

// --- ReviewStorer ---

func (s *PostgresStore) ListReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, listReviewsByProductQuery, productID)
	if err != nil {
		return nil, fmt.Errorf("store: ListReviewsByProduct failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var (
			r      domain.Review
			status string
		)
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &status, &r.DateCreated); err != nil {
			return nil, fmt.Errorf("store: ListReviewsByProduct failed to scan review row: %w", err)
		}
		r.Status = domain.ReviewStatus(status)
		reviews = append(reviews, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListReviewsByProduct iteration error: %w", err)
	}
	return reviews, nil
}

func (s *PostgresStore) HasUserReviewed(ctx context.Context, productID, userID int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, hasUserReviewedQuery, productID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("store: HasUserReviewed failed to scan row: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error) {
	err := s.db.QueryRowContext(ctx, insertReviewQuery,
		review.ProductID, review.UserID, review.UserName, review.Rating, review.Comment,
		string(review.Status), review.DateCreated,
	).Scan(&review.ID)
	if err != nil {
		// ON CONFLICT DO NOTHING returns no row for a duplicate.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewExists
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqUniqueViolation:
				return nil, ErrReviewExists
			case pqForeignKeyViolation:
				return nil, ErrProductNotFound
			}
		}
		return nil, fmt.Errorf("store: CreateReview failed to scan row: %w", err)
	}
	return &review, nil
}

// --- QuoteStorer ---

func (s *PostgresStore) CreateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error) {
	err := s.db.QueryRowContext(ctx, insertQuoteQuery,
		quote.ProductID, quote.ProductName, quote.UserName, quote.UserEmail, quote.UserPhone, quote.Message,
		quote.DateCreated,
	).Scan(&quote.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: CreateQuote failed to scan row: %w", err)
	}
	return &quote, nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		s.log.Info().Msg("Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			s.log.Error().Err(err).Msg("Failed to close database connection pool")
			return err
		}
		s.log.Info().Msg("Database connection pool closed successfully.")
	}
	return nil
}

// --- Helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p                                        domain.Product
		visibility                               string
		media, specs, variations, cta, downloads []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Description, &p.Price, &visibility, &p.Category,
		&media, &specs, &variations, &cta, &downloads,
		&p.Active, &p.DateCreated, &p.DateModified,
	)
	if err != nil {
		return nil, err
	}
	p.PriceVisibility = domain.PriceVisibility(visibility)

	// JSONB columns may be SQL NULL for optional attributes.
	for _, col := range []struct {
		raw  []byte
		dest any
		name string
	}{
		{media, &p.Media, "media"},
		{specs, &p.Specs, "specs"},
		{variations, &p.Variations, "variations"},
		{cta, &p.CTA, "cta"},
		{downloads, &p.Downloads, "downloads"},
	} {
		if len(col.raw) == 0 || string(col.raw) == "null" {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dest); err != nil {
			return nil, fmt.Errorf("decode %s for product %d: %w", col.name, p.ID, err)
		}
	}
	return &p, nil
}

func encodeProductAttributes(p domain.Product) (media, specs, variations, cta, downloads []byte, err error) {
	if media, err = json.Marshal(nonNilSlice(p.Media)); err != nil {
		return
	}
	if specs, err = json.Marshal(p.Specs); err != nil {
		return
	}
	if variations, err = json.Marshal(p.Variations); err != nil {
		return
	}
	if cta, err = json.Marshal(nonNilSlice(p.CTA)); err != nil {
		return
	}
	downloads, err = json.Marshal(p.Downloads)
	return
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
