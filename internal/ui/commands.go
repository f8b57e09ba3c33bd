package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/session"
	"github.com/joshiujjwal/lab37hw/internal/state"
)

type loginResultMsg struct {
	username string
	err      error
}

type searchFiredMsg struct {
	term string
}

type recipesLoadedMsg struct {
	seq   uint64
	token string
	items []api.RecipeSummary
	err   error
}

type recipeLoadedMsg struct {
	seq    uint64
	token  string
	recipe *api.Recipe
	err    error
}

type editLoadedMsg struct {
	id     int64
	token  string
	recipe *api.Recipe
	err    error
}

type confirmResultMsg struct {
	confirmed bool
}

type deletedMsg struct {
	id    int64
	token string
	err   error
}

type savedMsg struct {
	token  string
	recipe *api.Recipe
	err    error
}

func loginCmd(ctx context.Context, s *session.Session, username, password string) tea.Cmd {
	return func() tea.Msg {
		username = strings.TrimSpace(username)
		return loginResultMsg{username: username, err: s.Login(ctx, username, password)}
	}
}

func loadRecipesCmd(ctx context.Context, svc api.RecipeService, token string, req state.LoadRequest) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.ListRecipes(ctx, token, req.Term)
		return recipesLoadedMsg{seq: req.Seq, token: token, items: items, err: err}
	}
}

func loadRecipeCmd(ctx context.Context, svc api.RecipeService, token string, id int64, seq uint64) tea.Cmd {
	return func() tea.Msg {
		recipe, err := svc.GetRecipe(ctx, token, id)
		return recipeLoadedMsg{seq: seq, token: token, recipe: recipe, err: err}
	}
}

func loadForEditCmd(ctx context.Context, svc api.RecipeService, token string, id int64) tea.Cmd {
	return func() tea.Msg {
		recipe, err := svc.GetRecipe(ctx, token, id)
		return editLoadedMsg{id: id, token: token, recipe: recipe, err: err}
	}
}

func deleteRecipeCmd(ctx context.Context, svc api.RecipeService, token string, id int64) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, token: token, err: svc.DeleteRecipe(ctx, token, id)}
	}
}

func saveRecipeCmd(ctx context.Context, svc api.RecipeService, token string, draft state.Draft) tea.Cmd {
	return func() tea.Msg {
		recipe, err := draft.Save(ctx, svc, token)
		return savedMsg{token: token, recipe: recipe, err: err}
	}
}

// waitForSearch blocks until the debouncer delivers a term.
func waitForSearch(ctx context.Context, ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		select {
		case term := <-ch:
			return searchFiredMsg{term: term}
		case <-ctx.Done():
			return nil
		}
	}
}
