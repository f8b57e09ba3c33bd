package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	tokenPath   = "/api/token/"
	recipesPath = "/api/recipes/"
)

// RecipeService is the recipe surface of *Client. UI and CLI code depend on
// it so tests can substitute a fake.
type RecipeService interface {
	ListRecipes(ctx context.Context, token, search string) ([]RecipeSummary, error)
	GetRecipe(ctx context.Context, token string, id int64) (*Recipe, error)
	CreateRecipe(ctx context.Context, token string, in RecipeInput) (*Recipe, error)
	UpdateRecipe(ctx context.Context, token string, id int64, in RecipeInput) (*Recipe, error)
	DeleteRecipe(ctx context.Context, token string, id int64) error
}

var _ RecipeService = (*Client)(nil)

// ObtainToken exchanges credentials for an access token. No Authorization
// header is sent.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (string, error) {
	var payload tokenResponse
	if err := c.Post(ctx, tokenPath, tokenRequest{Username: username, Password: password}, "", &payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Access) == "" {
		return "", errors.New("token response missing access token")
	}
	return payload.Access, nil
}

// ListRecipes returns summaries, filtered by search when it is not blank.
func (c *Client) ListRecipes(ctx context.Context, token, search string) ([]RecipeSummary, error) {
	rel := &url.URL{Path: recipesPath}
	if term := strings.TrimSpace(search); term != "" {
		values := url.Values{}
		values.Set("search", term)
		rel.RawQuery = values.Encode()
	}
	var payload []RecipeSummary
	if _, err := c.do(ctx, http.MethodGet, rel, nil, token, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []RecipeSummary{}
	}
	return payload, nil
}

// GetRecipe fetches one recipe with its ingredients.
func (c *Client) GetRecipe(ctx context.Context, token string, id int64) (*Recipe, error) {
	if id <= 0 {
		return nil, fmt.Errorf("recipe id required")
	}
	var payload Recipe
	if err := c.Get(ctx, recipePath(id), token, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// CreateRecipe posts a new recipe and returns the stored copy.
func (c *Client) CreateRecipe(ctx context.Context, token string, in RecipeInput) (*Recipe, error) {
	var payload Recipe
	if err := c.Post(ctx, recipesPath, normalizeInput(in), token, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateRecipe replaces recipe id with the full payload in.
func (c *Client) UpdateRecipe(ctx context.Context, token string, id int64, in RecipeInput) (*Recipe, error) {
	if id <= 0 {
		return nil, fmt.Errorf("recipe id required")
	}
	var payload Recipe
	if err := c.Put(ctx, recipePath(id), normalizeInput(in), token, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DeleteRecipe removes recipe id. Anything but 204 is an error.
func (c *Client) DeleteRecipe(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("recipe id required")
	}
	_, err := c.Delete(ctx, recipePath(id), token)
	return err
}

func recipePath(id int64) string {
	return recipesPath + strconv.FormatInt(id, 10) + "/"
}

func normalizeInput(in RecipeInput) RecipeInput {
	if in.Ingredients == nil {
		in.Ingredients = []Ingredient{}
	}
	return in
}
