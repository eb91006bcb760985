package models

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Deazl-Comparator/deazl-sub001/internal/errs"
)

// MinQuantity is the smallest quantity a list item may carry.
const MinQuantity = 0.01

// MaxNameLength bounds list and item display names (matches the VARCHAR(255) columns).
const MaxNameLength = 255

// ItemQuantity is a validated, positive item quantity
type ItemQuantity struct {
	value float64
}

// NewItemQuantity validates v and returns the quantity value object
func NewItemQuantity(v float64) (ItemQuantity, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < MinQuantity {
		return ItemQuantity{}, errs.Validation("Quantity must be at least 0.01")
	}
	return ItemQuantity{value: v}, nil
}

// Value returns the raw quantity
func (q ItemQuantity) Value() float64 { return q.value }

// Equals compares two quantities by value
func (q ItemQuantity) Equals(other ItemQuantity) bool { return q.value == other.value }

func (q ItemQuantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(q.value, 'f', -1, 64)), nil
}

func (q *ItemQuantity) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return errs.Validation("Quantity must be a number")
	}
	parsed, err := NewItemQuantity(v)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Unit is the measurement unit of a list item
type Unit string

const (
	UnitUnit  Unit = "unit"
	UnitKg    Unit = "kg"
	UnitG     Unit = "g"
	UnitL     Unit = "l"
	UnitMl    Unit = "ml"
	UnitPiece Unit = "piece"
)

var validUnits = map[Unit]bool{
	UnitUnit:  true,
	UnitKg:    true,
	UnitG:     true,
	UnitL:     true,
	UnitMl:    true,
	UnitPiece: true,
}

// NewUnit validates raw against the enumerated unit set
func NewUnit(raw string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(raw)))
	if !validUnits[u] {
		return "", errs.Validation("Unit must be one of unit, kg, g, l, ml, piece")
	}
	return u, nil
}

// IsValid reports whether u belongs to the enumerated set
func (u Unit) IsValid() bool { return validUnits[u] }

// Equals compares two units
func (u Unit) Equals(other Unit) bool { return u == other }

// Price is a validated, non-negative price
type Price struct {
	value float64
}

// NewPrice validates v and returns the price value object
func NewPrice(v float64) (Price, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Price{}, errs.Validation("Price cannot be negative")
	}
	return Price{value: v}, nil
}

// NewOptionalPrice keeps absence as absence: a nil input yields a nil price.
func NewOptionalPrice(v *float64) (*Price, error) {
	if v == nil {
		return nil, nil
	}
	p, err := NewPrice(*v)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Value returns the raw price
func (p Price) Value() float64 { return p.value }

// Equals compares two prices by value
func (p Price) Equals(other Price) bool { return p.value == other.value }

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.value, 'f', -1, 64)), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return errs.Validation("Price must be a number")
	}
	parsed, err := NewPrice(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ItemStatus is the completion state of a list item
type ItemStatus struct {
	completed bool
}

// NewItemStatus wraps the completion flag
func NewItemStatus(completed bool) ItemStatus { return ItemStatus{completed: completed} }

// IsCompleted reports the completion flag
func (s ItemStatus) IsCompleted() bool { return s.completed }

// Toggle returns the opposite status
func (s ItemStatus) Toggle() ItemStatus { return ItemStatus{completed: !s.completed} }

// Equals compares two statuses
func (s ItemStatus) Equals(other ItemStatus) bool { return s.completed == other.completed }

// ValidateName trims a display name and checks it is non-empty and not too long.
// field is used in the error message ("List name", "Item name").
func ValidateName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.Validation(field + " is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", errs.Validation(field + " must be at most 255 characters")
	}
	return name, nil
}
