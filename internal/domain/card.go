package domain

import (
	"errors"
	"strings"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardSourceEmpty is returned when a card has no source text.
	ErrCardSourceEmpty = errors.New("card source text cannot be empty")

	// ErrCardTargetEmpty is returned when a card has no target text.
	ErrCardTargetEmpty = errors.New("card target text cannot be empty")
)

// Level is a difficulty tier from MinLevel to MaxLevel inclusive.
type Level int

// Level bounds
const (
	MinLevel Level = 1
	MaxLevel Level = 5
)

// Valid reports whether the level lies within MinLevel..MaxLevel.
func (l Level) Valid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// Levels returns every valid level in ascending order.
func Levels() []Level {
	levels := make([]Level, 0, MaxLevel-MinLevel+1)
	for l := MinLevel; l <= MaxLevel; l++ {
		levels = append(levels, l)
	}
	return levels
}

// Category is one of the fixed topical tags a card belongs to.
type Category string

// The fixed set of categories.
const (
	CategoryArchitecture Category = "IT Architecture & Systems"
	CategoryCloud        Category = "Cloud & Platform"
	CategoryDevelopment  Category = "Software Development"
	CategoryData         Category = "Data & AI"
	CategorySecurity     Category = "Security & Compliance"
	CategoryProject      Category = "Project Management"
	CategoryMeetings     Category = "Business Meetings"
	CategoryWriting      Category = "Email & Writing"
	CategoryDaily        Category = "Daily Conversation"
	CategoryTravel       Category = "Travel & Culture"
)

// CategoryAll is the filter value that matches every category.
const CategoryAll Category = "all"

var categories = []Category{
	CategoryArchitecture,
	CategoryCloud,
	CategoryDevelopment,
	CategoryData,
	CategorySecurity,
	CategoryProject,
	CategoryMeetings,
	CategoryWriting,
	CategoryDaily,
	CategoryTravel,
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the fixed categories.
// The "all" filter value is not a valid card category.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsAll reports whether c, used as a filter, matches every category.
func (c Category) IsAll() bool {
	return strings.TrimSpace(string(c)) == "" || strings.EqualFold(string(c), string(CategoryAll))
}

// Matches reports whether a card in category card passes the filter c.
func (c Category) Matches(card Category) bool {
	return c.IsAll() || c == card
}

// Card is a single vocabulary or phrase entry. Cards are immutable once loaded.
type Card struct {
	ID       string   `json:"id"`
	Level    Level    `json:"level"`
	Category Category `json:"category"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Hint     string   `json:"hint,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c Card) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return ErrCardIDEmpty
	}

	if !c.Level.Valid() {
		return ErrInvalidLevel
	}

	if !c.Category.Valid() {
		return ErrInvalidCategory
	}

	if strings.TrimSpace(c.Source) == "" {
		return ErrCardSourceEmpty
	}

	if strings.TrimSpace(c.Target) == "" {
		return ErrCardTargetEmpty
	}

	return nil
}
