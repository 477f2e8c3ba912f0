package movement

import (
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type tells whether a movement adds to or subtracts from the balance
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// MaxNoteLength is the maximum number of characters accepted in a note
const MaxNoteLength = 280

// Valid reports whether t is a known movement type
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Movement is a single income or expense record.
// Amount is always a positive magnitude; direction is carried by Type.
type Movement struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Type      Type               `json:"type" bson:"type"`
	Amount    float64            `json:"amount" bson:"amount"`
	Date      time.Time          `json:"date" bson:"date"`
	Category  string             `json:"category" bson:"category"`
	Note      string             `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SignedAmount returns +amount for income and -amount for expense
func (m *Movement) SignedAmount() float64 {
	if m.Type == TypeExpense {
		return -m.Amount
	}
	return m.Amount
}

// New validates the input fields and builds an unsaved movement.
// The category is stored trimmed; the date is normalized to UTC.
func New(typ Type, amount float64, date time.Time, category, note string) (*Movement, error) {
	m := &Movement{
		Type:     typ,
		Amount:   amount,
		Date:     date.UTC(),
		Category: strings.TrimSpace(category),
		Note:     note,
	}
	if err := validateType(typ); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if err := validateCategory(m.Category); err != nil {
		return nil, err
	}
	if err := validateNote(note); err != nil {
		return nil, err
	}
	return m, nil
}

// Patch carries the fields supplied to a partial update; nil means untouched
type Patch struct {
	Type     *Type
	Amount   *float64
	Date     *time.Time
	Category *string
	Note     *string
}

// IsEmpty reports whether no field was supplied
func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.Amount == nil && p.Date == nil && p.Category == nil && p.Note == nil
}

// Normalize validates the supplied fields with the same rules as New and
// returns a copy with the category trimmed and the date in UTC.
func (p Patch) Normalize() (Patch, error) {
	out := p
	if p.Type != nil {
		if err := validateType(*p.Type); err != nil {
			return Patch{}, err
		}
	}
	if p.Amount != nil {
		if err := validateAmount(*p.Amount); err != nil {
			return Patch{}, err
		}
	}
	if p.Date != nil {
		if err := validateDate(*p.Date); err != nil {
			return Patch{}, err
		}
		d := p.Date.UTC()
		out.Date = &d
	}
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		if err := validateCategory(c); err != nil {
			return Patch{}, err
		}
		out.Category = &c
	}
	if p.Note != nil {
		if err := validateNote(*p.Note); err != nil {
			return Patch{}, err
		}
	}
	return out, nil
}

func validateType(t Type) error {
	if !t.Valid() {
		return ValidationError{Field: "type", Reason: "must be one of income, expense"}
	}
	return nil
}

func validateAmount(amount float64) error {
	// NaN fails this comparison too
	if !(amount > 0) {
		return ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	return nil
}

func validateDate(d time.Time) error {
	if d.IsZero() {
		return ValidationError{Field: "date", Reason: "is required"}
	}
	return nil
}

func validateCategory(c string) error {
	if c == "" {
		return ValidationError{Field: "category", Reason: "must not be empty"}
	}
	return nil
}

func validateNote(n string) error {
	if utf8.RuneCountInString(n) > MaxNoteLength {
		return ValidationError{Field: "note", Reason: "must be at most 280 characters"}
	}
	return nil
}
