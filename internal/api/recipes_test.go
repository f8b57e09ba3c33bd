package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/joshiujjwal/lab37hw/internal/apitest"
)

func newFakeClient(t *testing.T) (*apitest.Server, *Client, string) {
	t.Helper()
	server := apitest.New(t)
	server.AddUser("cook", "secret")
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	token, err := c.ObtainToken(context.Background(), "cook", "secret")
	if err != nil {
		t.Fatalf("ObtainToken returned error: %v", err)
	}
	server.ResetCalls()
	return server, c, token
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestObtainToken_SendsNoAuthorizationAndRejectsBadCredentials(t *testing.T) {
	server := apitest.New(t)
	server.AddUser("cook", "secret")
	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := testContext(t)

	token, err := c.ObtainToken(ctx, "cook", "secret")
	if err != nil || token == "" {
		t.Fatalf("ObtainToken = %q, %v; want token", token, err)
	}
	calls := server.Calls()
	if len(calls) != 1 || calls[0].Authorization != "" {
		t.Fatalf("calls = %#v, want one token call without Authorization", calls)
	}

	_, err = c.ObtainToken(ctx, "cook", "wrong")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ObtainToken error = %v, want ErrUnauthorized", err)
	}
	if err.Error() != "No active account found with the given credentials" {
		t.Fatalf("ObtainToken error = %q, want server detail", err.Error())
	}
}

func TestCreateThenGetRoundTrips(t *testing.T) {
	server, c, token := newFakeClient(t)
	ctx := testContext(t)

	in := RecipeInput{
		Title:        "Pancakes",
		Instructions: "Mix.\nFry.",
		YieldAmount:  "4 servings",
		Ingredients: []Ingredient{
			{Name: "flour", Quantity: Numeric(2), Unit: "cup"},
			{Name: "milk", Quantity: Numeric(1.5), Unit: "cup"},
		},
	}
	created, err := c.CreateRecipe(ctx, token, in)
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("created ID = 0, want assigned id")
	}
	if server.Count(http.MethodPost, "/api/recipes/") != 1 || server.Count(http.MethodPut, "/api/recipes/") != 0 {
		t.Fatalf("calls = %#v, want exactly one POST", server.Calls())
	}

	got, err := c.GetRecipe(ctx, token, created.ID)
	if err != nil {
		t.Fatalf("GetRecipe returned error: %v", err)
	}
	if got.Title != in.Title || got.Instructions != in.Instructions || got.YieldAmount != in.YieldAmount {
		t.Fatalf("GetRecipe = %#v, want fields of %#v", got, in)
	}
	if len(got.Ingredients) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(got.Ingredients))
	}
	for i, ing := range got.Ingredients {
		want := in.Ingredients[i]
		if ing.Name != want.Name || ing.Unit != want.Unit || !ing.Quantity.Equal(want.Quantity) {
			t.Fatalf("ingredient[%d] = %#v, want %#v", i, ing, want)
		}
		if !ing.Quantity.IsText() {
			t.Fatalf("ingredient[%d] quantity = %#v, want decimal string from server", i, ing.Quantity)
		}
	}
}

func TestUpdateUsesPutAndKeepsID(t *testing.T) {
	server, c, token := newFakeClient(t)
	ctx := testContext(t)
	seeded := server.Seed(apitest.Recipe{Title: "Soup", Instructions: "Boil", YieldAmount: "2",
		Ingredients: []apitest.Ingredient{{Name: "water", Quantity: "1.00", Unit: "l"}}})

	existing, err := c.GetRecipe(ctx, token, seeded[0].ID)
	if err != nil {
		t.Fatalf("GetRecipe returned error: %v", err)
	}
	in := existing.Input()
	in.Title = "Better soup"

	updated, err := c.UpdateRecipe(ctx, token, existing.ID, in)
	if err != nil {
		t.Fatalf("UpdateRecipe returned error: %v", err)
	}
	if updated.ID != existing.ID || updated.Title != "Better soup" {
		t.Fatalf("UpdateRecipe = %#v, want id %d with new title", updated, existing.ID)
	}
	if server.Count(http.MethodPost, "/api/recipes/") != 0 {
		t.Fatalf("UpdateRecipe issued a POST")
	}
	if server.Len() != 1 {
		t.Fatalf("server has %d recipes, want 1", server.Len())
	}
	stored, _ := server.Recipe(existing.ID)
	if stored.Ingredients[0].Quantity != "1.00" {
		t.Fatalf("stored quantity = %q, want text preserved as 1.00", stored.Ingredients[0].Quantity)
	}
}

func TestListRecipes_SearchAndOrdering(t *testing.T) {
	server, c, token := newFakeClient(t)
	ctx := testContext(t)
	server.Seed(
		apitest.Recipe{Title: "Chicken curry", Instructions: "x", YieldAmount: "4"},
		apitest.Recipe{Title: "Tomato soup", Instructions: "x", YieldAmount: "2"},
		apitest.Recipe{Title: "Roast chicken", Instructions: "x", YieldAmount: "6"},
	)

	all, err := c.ListRecipes(ctx, token, "   ")
	if err != nil {
		t.Fatalf("ListRecipes returned error: %v", err)
	}
	if len(all) != 3 || all[0].Title != "Roast chicken" {
		t.Fatalf("ListRecipes = %#v, want 3 newest first", all)
	}
	if calls := server.Calls(); calls[0].Query != "" {
		t.Fatalf("query = %q, want none for blank search", calls[0].Query)
	}

	hits, err := c.ListRecipes(ctx, token, "chick")
	if err != nil {
		t.Fatalf("ListRecipes returned error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("ListRecipes(chick) = %#v, want 2", hits)
	}
	if calls := server.Calls(); calls[1].Query != "search=chick" {
		t.Fatalf("query = %q, want search=chick", calls[1].Query)
	}

	none, err := c.ListRecipes(ctx, token, "zzz")
	if err != nil {
		t.Fatalf("ListRecipes returned error: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("ListRecipes(zzz) = %#v, want empty non-nil slice", none)
	}
}

func TestDeleteRecipe(t *testing.T) {
	server, c, token := newFakeClient(t)
	ctx := testContext(t)
	seeded := server.Seed(apitest.Recipe{Title: "Toast", Instructions: "x", YieldAmount: "1"})

	if err := c.DeleteRecipe(ctx, token, seeded[0].ID); err != nil {
		t.Fatalf("DeleteRecipe returned error: %v", err)
	}
	if server.Len() != 0 {
		t.Fatalf("server has %d recipes, want 0", server.Len())
	}
	if err := c.DeleteRecipe(ctx, token, seeded[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteRecipe error = %v, want ErrNotFound", err)
	}
}

func TestRecipeCallsRejectBadToken(t *testing.T) {
	_, c, _ := newFakeClient(t)
	_, err := c.ListRecipes(testContext(t), "forged", "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("ListRecipes error = %v, want ErrUnauthorized", err)
	}
}
