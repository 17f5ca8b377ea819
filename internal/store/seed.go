package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"product-showcase-service/internal/domain"
)

// DemoCatalog returns the showcase products loaded by SeedDemo: a publicly
// priced sofa and an on-request armchair sharing the same category.
func DemoCatalog(now time.Time) []domain.Product {
	sofa := domain.Product{
		Name:            "Sofá Retrátil 3 Lugares Linho Bege",
		SKU:             "SOFA-RET-001",
		Description:     "<p>Sofá confortável com design moderno, ideal para salas de estar.</p>",
		Price:           decimal.NewFromInt(2500),
		PriceVisibility: domain.PriceVisibilityPublic,
		Category:        "Sala de Estar",
		Media: []domain.Media{
			{URL: "https://example.com/sofa-main.jpg", Alt: "Sofá Frente", Type: domain.MediaTypeImage},
			{URL: "https://example.com/sofa-side.jpg", Alt: "Sofá Lateral", Type: domain.MediaTypeImage},
		},
		Specs: domain.Specs{
			Height:    ptr(95.0),
			Width:     ptr(220.0),
			Depth:     ptr(110.0),
			Weight:    ptr(85.0),
			Materials: []string{"Madeira Maciça", "Linho", "Espuma D33"},
		},
		Variations: []domain.Variation{{
			Name: "Cor",
			Options: []domain.VariationOption{
				{
					Label: "Bege",
					SKU:   ptr("SOFA-RET-001-BE"),
					Media: []domain.Media{{URL: "https://example.com/sofa-bege.jpg", Alt: "Bege", Type: domain.MediaTypeImage}},
				},
				{
					Label: "Cinza",
					SKU:   ptr("SOFA-RET-001-CZ"),
					Media: []domain.Media{{URL: "https://example.com/sofa-cinza.jpg", Alt: "Cinza", Type: domain.MediaTypeImage}},
				},
			},
		}},
		CTA: []domain.CTA{
			{Label: "Solicitar Orçamento", ActionType: domain.CTAActionQuoteForm, ActionValue: "modal-quote"},
			{Label: "Falar no WhatsApp", ActionType: domain.CTAActionWhatsApp, ActionValue: "5511999999999"},
		},
		Downloads: []domain.Download{
			{FileName: "Manual de Montagem", FileURL: "https://example.com/manual.pdf", FileType: "MANUAL", FileSize: "2MB"},
		},
		Active:       true,
		DateCreated:  now,
		DateModified: now,
	}

	armchair := sofa
	armchair.Name = "Poltrona Decorativa"
	armchair.SKU = "POLT-002"
	armchair.PriceVisibility = domain.PriceVisibilityOnRequest

	return []domain.Product{sofa, armchair}
}

// SeedDemo loads DemoCatalog plus one approved review of the first product.
// Running it twice is harmless: existing SKUs and reviews are skipped.
func SeedDemo(ctx context.Context, s Store, now time.Time) error {
	var firstID int64
	for i, p := range DemoCatalog(now) {
		created, err := s.CreateProduct(ctx, p)
		if errors.Is(err, ErrProductSKUExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("store: seed product %s: %w", p.SKU, err)
		}
		if i == 0 {
			firstID = created.ID
		}
	}
	if firstID == 0 {
		// Catalog was already present.
		return nil
	}

	_, err := s.CreateReview(ctx, domain.Review{
		ProductID:   firstID,
		UserID:      101,
		UserName:    "Maria Silva",
		Rating:      5,
		Comment:     ptr("Excelente sofá, muito confortável!"),
		Status:      domain.ReviewStatusApproved,
		DateCreated: now,
	})
	if err != nil && !errors.Is(err, ErrReviewExists) {
		return fmt.Errorf("store: seed review: %w", err)
	}
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
