package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryFood          Category = "food"
	CategoryTravel        Category = "travel"
	CategoryBills         Category = "bills"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryOther         Category = "other"
)

const (
	SourceManual   Source = "manual"
	SourceImported Source = "imported"
)

type (
	// Category is one of the fixed set of expense classifications.
	Category string

	// Source records how an expense entered the system.
	Source string

	// Expense is a single spending event.
	Expense struct {
		ID       string    `json:"id"`
		Title    string    `json:"title"`
		Amount   Money     `json:"amount"`
		Category Category  `json:"category"`
		Date     time.Time `json:"date"`
		Notes    string    `json:"notes,omitempty"`
		Source   Source    `json:"source"`
	}

	// CategoryLimit is the budget ceiling and running total for one category.
	// Exactly one exists per category; only Limit and Current ever change.
	CategoryLimit struct {
		Category Category `json:"category"`
		Limit    Money    `json:"limit"`
		Current  Money    `json:"current"`
	}

	// DailyLimit is the ceiling and running total for one calendar day.
	DailyLimit struct {
		Day     Day   `json:"date"`
		Limit   Money `json:"limit"`
		Current Money `json:"current"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyTitle      = errors.New("empty title")
	ErrInvalidCategory = errors.New("invalid category")
)

// categories holds every category in declared order. The order matters:
// the categorizer tests keywords category by category and the first hit wins.
var categories = []Category{
	CategoryFood,
	CategoryTravel,
	CategoryBills,
	CategoryEntertainment,
	CategoryShopping,
	CategoryOther,
}

// Categories returns all categories in declared order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTravel, CategoryBills, CategoryEntertainment, CategoryShopping, CategoryOther:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if e.Date.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Imported reports whether the expense came from a payment import.
// The source field is the one discriminator; notes are never inspected.
func (e Expense) Imported() bool {
	return e.Source == SourceImported
}
