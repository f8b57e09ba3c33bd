package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/joshiujjwal/lab37hw/internal/api"
)

// SaveFailedMessage is shown when create or update fails.
const SaveFailedMessage = "Failed to save recipe."

// ErrValidation matches ValidationErrors.
var ErrValidation = errors.New("invalid recipe")

// IngredientField selects a column of an ingredient row.
type IngredientField int

const (
	FieldName IngredientField = iota
	FieldQuantity
	FieldUnit
)

func (f IngredientField) String() string {
	switch f {
	case FieldQuantity:
		return "quantity"
	case FieldUnit:
		return "unit"
	default:
		return "name"
	}
}

// FieldError names one invalid field, e.g. "title" or "ingredients[1].unit".
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors lists every invalid field of a draft.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool { return target == ErrValidation }

// For returns the message for field, if any.
func (v ValidationErrors) For(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// RecipeSaver persists drafts. *api.Client implements it.
type RecipeSaver interface {
	CreateRecipe(ctx context.Context, token string, in api.RecipeInput) (*api.Recipe, error)
	UpdateRecipe(ctx context.Context, token string, id int64, in api.RecipeInput) (*api.Recipe, error)
}

// Draft is the editable copy of a recipe held by the form. A zero ID means
// the draft creates a new recipe.
type Draft struct {
	ID           int64
	Title        string
	Instructions string
	YieldAmount  string
	Ingredients  []api.Ingredient
}

// NewDraft returns an empty draft with one blank ingredient row.
func NewDraft() Draft {
	return Draft{Ingredients: []api.Ingredient{{}}}
}

// DraftFromRecipe copies r so edits never touch the caller's recipe.
func DraftFromRecipe(r api.Recipe) Draft {
	return Draft{
		ID:           r.ID,
		Title:        r.Title,
		Instructions: r.Instructions,
		YieldAmount:  r.YieldAmount,
		Ingredients:  append([]api.Ingredient{}, r.Ingredients...),
	}
}

// IsNew reports whether saving will create a recipe.
func (d *Draft) IsNew() bool { return d.ID == 0 }

// AddIngredient appends a blank row.
func (d *Draft) AddIngredient() {
	d.Ingredients = append(d.Ingredients, api.Ingredient{})
}

// SetIngredient updates one field of row i.
func (d *Draft) SetIngredient(i int, field IngredientField, value string) error {
	if i < 0 || i >= len(d.Ingredients) {
		return fmt.Errorf("ingredient %d out of range", i)
	}
	switch field {
	case FieldName:
		d.Ingredients[i].Name = value
	case FieldQuantity:
		d.Ingredients[i].Quantity = api.ParseQuantity(value)
	case FieldUnit:
		d.Ingredients[i].Unit = value
	default:
		return fmt.Errorf("unknown ingredient field %d", field)
	}
	return nil
}

// RemoveIngredient deletes row i; later rows shift down.
func (d *Draft) RemoveIngredient(i int) error {
	if i < 0 || i >= len(d.Ingredients) {
		return fmt.Errorf("ingredient %d out of range", i)
	}
	d.Ingredients = append(d.Ingredients[:i], d.Ingredients[i+1:]...)
	return nil
}

// Validate checks required fields. An empty ingredient list is allowed; every
// row that exists must be complete and have a numeric quantity.
func (d *Draft) Validate() error {
	var errs ValidationErrors
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, FieldError{Field: field, Message: "required"})
		}
	}
	required("title", d.Title)
	required("yield_amount", d.YieldAmount)
	required("instructions", d.Instructions)
	for i, ing := range d.Ingredients {
		prefix := fmt.Sprintf("ingredients[%d].", i)
		required(prefix+"name", ing.Name)
		switch _, numeric := ing.Quantity.Float(); {
		case ing.Quantity.IsZero():
			errs = append(errs, FieldError{Field: prefix + "quantity", Message: "required"})
		case !numeric:
			errs = append(errs, FieldError{Field: prefix + "quantity", Message: "must be a number"})
		}
		required(prefix+"unit", ing.Unit)
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Input is the full payload sent on save.
func (d *Draft) Input() api.RecipeInput {
	return api.RecipeInput{
		Title:        d.Title,
		Instructions: d.Instructions,
		YieldAmount:  d.YieldAmount,
		Ingredients:  append([]api.Ingredient{}, d.Ingredients...),
	}
}

// Save validates the draft and then updates it when it has an id or creates
// it otherwise. The draft is not modified.
func (d *Draft) Save(ctx context.Context, saver RecipeSaver, token string) (*api.Recipe, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if d.IsNew() {
		return saver.CreateRecipe(ctx, token, d.Input())
	}
	return saver.UpdateRecipe(ctx, token, d.ID, d.Input())
}
