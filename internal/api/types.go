package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type quantityKind uint8

const (
	quantityAbsent quantityKind = iota
	quantityNumeric
	quantityText
)

// Quantity is an ingredient amount. The server may hand back either a JSON
// number or a decimal string ("2.00"); both are kept as received so a re-save
// sends the same representation back.
type Quantity struct {
	kind quantityKind
	num  float64
	text string
}

// Numeric returns a numeric quantity.
func Numeric(v float64) Quantity {
	return Quantity{kind: quantityNumeric, num: v}
}

// Text returns a textual quantity.
func Text(s string) Quantity {
	return Quantity{kind: quantityText, text: s}
}

// ParseQuantity converts form input into a quantity. Blank input is absent,
// anything ParseFloat accepts is numeric, and everything else is text.
func ParseQuantity(s string) Quantity {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Quantity{}
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return Numeric(v)
	}
	return Text(trimmed)
}

// IsZero reports whether the quantity is absent.
func (q Quantity) IsZero() bool {
	return q.kind == quantityAbsent
}

// IsText reports whether the quantity carries a string value.
func (q Quantity) IsText() bool {
	return q.kind == quantityText
}

// Float returns the numeric value, parsing text when possible. NaN and
// infinities are not numbers here.
func (q Quantity) Float() (float64, bool) {
	switch q.kind {
	case quantityNumeric:
		return q.num, true
	case quantityText:
		v, err := strconv.ParseFloat(strings.TrimSpace(q.text), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// String renders the quantity for display and editing.
func (q Quantity) String() string {
	switch q.kind {
	case quantityNumeric:
		return strconv.FormatFloat(q.num, 'f', -1, 64)
	case quantityText:
		return q.text
	default:
		return ""
	}
}

// Equal compares numerically when both sides are numbers, else by text.
func (q Quantity) Equal(other Quantity) bool {
	if q.IsZero() || other.IsZero() {
		return q.IsZero() && other.IsZero()
	}
	a, okA := q.Float()
	b, okB := other.Float()
	if okA && okB {
		return a == b
	}
	return q.String() == other.String()
}

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	switch q.kind {
	case quantityNumeric:
		return []byte(strconv.FormatFloat(q.num, 'f', -1, 64)), nil
	case quantityText:
		return json.Marshal(q.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = Quantity{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		*q = Text(s)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	*q = Numeric(v)
	return nil
}

// Ingredient is one line of a recipe.
type Ingredient struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`
}

// Recipe mirrors /api/recipes/{id}/.
type Recipe struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Instructions string       `json:"instructions"`
	YieldAmount  string       `json:"yield_amount"`
	Ingredients  []Ingredient `json:"ingredients"`
	UpdatedAt    string       `json:"updated_at,omitempty"`
}

// UpdatedTime parses UpdatedAt; zero when absent or malformed.
func (r Recipe) UpdatedTime() time.Time {
	return parseTime(r.UpdatedAt)
}

// Summary projects the recipe to its list form.
func (r Recipe) Summary() RecipeSummary {
	return RecipeSummary{ID: r.ID, Title: r.Title, YieldAmount: r.YieldAmount}
}

// Input strips server-owned fields for create/update bodies.
func (r Recipe) Input() RecipeInput {
	return RecipeInput{
		Title:        r.Title,
		Instructions: r.Instructions,
		YieldAmount:  r.YieldAmount,
		Ingredients:  cloneIngredients(r.Ingredients),
	}
}

// RecipeSummary is the projection the list endpoint returns.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	YieldAmount string `json:"yield_amount"`
}

// RecipeInput is the body for create and update requests.
type RecipeInput struct {
	Title        string       `json:"title"`
	Instructions string       `json:"instructions"`
	YieldAmount  string       `json:"yield_amount"`
	Ingredients  []Ingredient `json:"ingredients"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

func cloneIngredients(in []Ingredient) []Ingredient {
	out := make([]Ingredient, len(in))
	copy(out, in)
	return out
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}
