package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceVisibility is the per-product rule controlling whether and how a price is disclosed.
type PriceVisibility string

const (
	PriceVisibilityPublic     PriceVisibility = "PUBLIC"
	PriceVisibilityOnRequest  PriceVisibility = "ON_REQUEST"
	PriceVisibilityRestricted PriceVisibility = "RESTRICTED"
)

// Valid reports whether v is one of the known visibility policies.
func (v PriceVisibility) Valid() bool {
	switch v {
	case PriceVisibilityPublic, PriceVisibilityOnRequest, PriceVisibilityRestricted:
		return true
	}
	return false
}

// MediaType distinguishes images from videos in a product gallery.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Media is a single gallery entry.
type Media struct {
	URL  string    `json:"url"`
	Alt  string    `json:"alt"`
	Type MediaType `json:"type"`
}

// Specs holds the physical attributes of a product. Every field is optional.
type Specs struct {
	Height    *float64 `json:"height,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Depth     *float64 `json:"depth,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Materials []string `json:"materials,omitempty"`
}

// VariationOption is one selectable value of a Variation (e.g. a color).
type VariationOption struct {
	Label string           `json:"label"`
	SKU   *string          `json:"sku,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Media []Media          `json:"media,omitempty"`
}

// Variation groups options under a name, e.g. "Color".
type Variation struct {
	Name    string            `json:"name"`
	Options []VariationOption `json:"options"`
}

// CTAActionType tells the presentation layer what a call-to-action does.
type CTAActionType string

const (
	CTAActionWhatsApp     CTAActionType = "WHATSAPP"
	CTAActionQuoteForm    CTAActionType = "QUOTE_FORM"
	CTAActionExternalLink CTAActionType = "EXTERNAL_LINK"
)

// CTA is a call-to-action attached to a product page.
type CTA struct {
	Label       string        `json:"label"`
	ActionType  CTAActionType `json:"actionType"`
	ActionValue string        `json:"actionValue"`
}

// Download is a downloadable document (manual, datasheet) attached to a product.
type Download struct {
	FileName     string  `json:"fileName"`
	FileURL      string  `json:"fileUrl"`
	FileType     string  `json:"fileType"`
	FileSize     string  `json:"fileSize"`
	RequiredRole *string `json:"requiredRole,omitempty"`
}

// Product is a catalog entry. Products are immutable once seeded; the store owns them.
type Product struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	PriceVisibility PriceVisibility `json:"priceVisibility"`
	Category        string          `json:"category"`
	Media           []Media         `json:"media"`
	Specs           Specs           `json:"specs"`
	Variations      []Variation     `json:"variations,omitempty"`
	CTA             []CTA           `json:"cta"`
	Downloads       []Download      `json:"downloads,omitempty"`
	Active          bool            `json:"active"`
	DateCreated     time.Time       `json:"dateCreated"`
	DateModified    time.Time       `json:"dateModified"`
}

// PrimaryImageURL returns the URL of the first media entry, or "" when the gallery is empty.
func (p Product) PrimaryImageURL() string {
	if len(p.Media) == 0 {
		return ""
	}
	return p.Media[0].URL
}
