package model

import "time"

var Variants = []string{"Emo", "EmoPro", "ProPlus"}

type ProductFeature struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	Icon        string `json:"icon,omitempty" bson:"icon,omitempty"`
}

type ProductImage struct {
	URL       string `json:"url" bson:"url"`
	Alt       string `json:"alt,omitempty" bson:"alt,omitempty"`
	IsPrimary bool   `json:"isPrimary" bson:"isPrimary"`
}

// Product is a catalog entry. Slug is derived from Name once, at creation.
type Product struct {
	ID                  string            `json:"id" bson:"_id"`
	Name                string            `json:"name" bson:"name"`
	Slug                string            `json:"slug" bson:"slug"`
	Variant             string            `json:"variant" bson:"variant"`
	Description         string            `json:"description" bson:"description"`
	DetailedDescription string            `json:"detailedDescription,omitempty" bson:"detailedDescription,omitempty"`
	Features            []ProductFeature  `json:"features" bson:"features"`
	Specifications      map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Price               float64           `json:"price" bson:"price"`
	DiscountPrice       *float64          `json:"discountPrice,omitempty" bson:"discountPrice,omitempty"`
	Images              []ProductImage    `json:"images" bson:"images"`
	Stock               int               `json:"stock" bson:"stock"`
	IsActive            bool              `json:"isActive" bson:"isActive"`
	Tags                []string          `json:"tags" bson:"tags"`
	CreatedAt           time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// ProductFilter drives catalog listings
type ProductFilter struct {
	Variant         string
	Search          string
	MinPrice        *float64
	MaxPrice        *float64
	IncludeInactive bool
	SortField       string
	SortDesc        bool
	Page            int
	Limit           int
}

func ValidVariant(variant string) bool {
	return contains(Variants, variant)
}
