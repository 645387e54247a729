// Package catalog holds the immutable vocabulary loaded at startup, indexed
// by card ID and partitioned by level.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/lingodeck/internal/domain"
	"github.com/phrazzld/lingodeck/internal/platform/logger"
	"github.com/phrazzld/lingodeck/internal/redact"
)

// ErrMalformed is returned when the vocabulary document cannot be decoded.
var ErrMalformed = errors.New("malformed vocabulary document")

// record is the on-disk shape of a card.
type record struct {
	ID       string   `json:"id"       validate:"required,max=128"`
	Level    int      `json:"level"    validate:"gte=1,lte=5"`
	Category string   `json:"category" validate:"required,category"`
	Source   string   `json:"source"   validate:"required"`
	Target   string   `json:"target"   validate:"required"`
	Hint     string   `json:"hint"`
	Tags     []string `json:"tags"     validate:"dive,required"`
}

type document struct {
	Cards []record `json:"cards"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	return v
}

// Catalog is a read-only set of cards. The zero value is not usable; use
// New, Empty, Parse or Load.
type Catalog struct {
	cards   []domain.Card
	byID    map[string]domain.Card
	byLevel map[domain.Level][]domain.Card
}

// Empty returns a catalog with no cards. Every query against it returns nothing.
func Empty() *Catalog {
	return New(nil, nil)
}

// New builds a catalog from cards, skipping any that fail validation or repeat
// an earlier ID. If l is nil, a default logger will be used.
func New(cards []domain.Card, l *slog.Logger) *Catalog {
	if l == nil {
		l = slog.Default()
	}

	c := &Catalog{
		cards:   make([]domain.Card, 0, len(cards)),
		byID:    make(map[string]domain.Card, len(cards)),
		byLevel: make(map[domain.Level][]domain.Card, domain.MaxLevel),
	}

	for i, card := range cards {
		if err := card.Validate(); err != nil {
			l.Warn("skipping invalid card", "index", i, "card_id", card.ID, "error", err)
			continue
		}
		if _, dup := c.byID[card.ID]; dup {
			l.Warn("skipping duplicate card", "index", i, "card_id", card.ID)
			continue
		}
		c.cards = append(c.cards, card)
		c.byID[card.ID] = card
		c.byLevel[card.Level] = append(c.byLevel[card.Level], card)
	}

	return c
}

// Parse decodes a vocabulary document. Both {"cards": [...]} and a bare array
// are accepted. Records failing validation are skipped with a warning; a
// document that cannot be decoded at all returns ErrMalformed.
func Parse(data []byte, l *slog.Logger) (*Catalog, error) {
	if l == nil {
		l = slog.Default()
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	var records []record
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		records = doc.Cards
	}

	cards := make([]domain.Card, 0, len(records))
	for i, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		if err := validate.Struct(r); err != nil {
			l.Warn("skipping invalid vocabulary record", "index", i, "card_id", r.ID, "error", err.Error())
			continue
		}
		cards = append(cards, r.toCard())
	}

	return New(cards, l), nil
}

// Load reads the vocabulary file at path. Any failure is logged and yields an
// empty catalog so startup never fails on bad vocabulary.
func Load(ctx context.Context, path string) *Catalog {
	log := logger.FromContext(ctx).With("component", "catalog")

	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read vocabulary, continuing with empty catalog",
			"error", redact.Error(err))
		return Empty()
	}

	c, err := Parse(data, log)
	if err != nil {
		log.Error("failed to parse vocabulary, continuing with empty catalog",
			"error", err)
		return Empty()
	}

	log.Info("vocabulary loaded", "cards", c.Len())
	return c
}

func (r record) toCard() domain.Card {
	var tags []string
	if len(r.Tags) > 0 {
		tags = make([]string, len(r.Tags))
		copy(tags, r.Tags)
	}
	return domain.Card{
		ID:       r.ID,
		Level:    domain.Level(r.Level),
		Category: domain.Category(r.Category),
		Source:   r.Source,
		Target:   r.Target,
		Hint:     r.Hint,
		Tags:     tags,
	}
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.cards)
}

// Card looks up a card by ID.
func (c *Catalog) Card(id string) (domain.Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Cards returns the cards at level that pass the category filter, in load
// order. The "all" or empty filter matches every category.
func (c *Catalog) Cards(level domain.Level, category domain.Category) []domain.Card {
	src := c.byLevel[level]
	out := make([]domain.Card, 0, len(src))
	for _, card := range src {
		if category.Matches(card.Category) {
			out = append(out, card)
		}
	}
	return out
}

// LevelCounts returns the number of cards per level, including empty levels.
func (c *Catalog) LevelCounts() map[domain.Level]int {
	counts := make(map[domain.Level]int, domain.MaxLevel)
	for _, l := range domain.Levels() {
		counts[l] = len(c.byLevel[l])
	}
	return counts
}
