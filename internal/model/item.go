package model

import "time"

// Item is a clothing listing owned by a user.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Size        string    `json:"size"`
	Condition   string    `json:"condition"`
	Tags        []string  `json:"tags"`
	Images      []string  `json:"images"`
	OwnerID     string    `json:"owner_id"`
	PricePoints int       `json:"price_points"`
	Available   bool      `json:"available"`
	IsApproved  bool      `json:"is_approved"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined fields (not always populated).
	OwnerUsername string `json:"owner_username,omitempty"`
}

// Item categories.
const (
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryDresses     = "dresses"
	CategoryOuterwear   = "outerwear"
	CategoryShoes       = "shoes"
	CategoryAccessories = "accessories"
)

// Item conditions.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

// DefaultPricePoints is used when a listing does not name a price.
const DefaultPricePoints = 50

// UnknownLabel replaces names of entities that can no longer be resolved.
const UnknownLabel = "Unknown"

// ValidCategory reports whether c is a known item category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

// ValidCondition reports whether c is a known item condition.
func ValidCondition(c string) bool {
	switch c {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}
