package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshiujjwal/lab37hw/internal/apitest"
	"github.com/joshiujjwal/lab37hw/internal/config"
	"github.com/joshiujjwal/lab37hw/internal/session"
	"github.com/joshiujjwal/lab37hw/internal/tokenstore"
)

type cli struct {
	t         *testing.T
	server    *apitest.Server
	config    string
	tokenFile string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")

	server := apitest.New(t)
	server.AddUser("cook", "secret")

	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "session.toml")
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("api_url = %q\ntoken_file = %q\nlog_file = %q\n",
		server.URL, tokenFile, filepath.Join(dir, "recipebox.log"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return &cli{t: t, server: server, config: path, tokenFile: tokenFile}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", c.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) login() {
	c.t.Helper()
	_, err := c.run("login", "-u", "cook", "-p", "secret")
	require.NoError(c.t, err)
}

func (c *cli) storedToken() string {
	c.t.Helper()
	store, err := tokenstore.NewFileStore(c.tokenFile)
	require.NoError(c.t, err)
	token, err := store.Load()
	require.NoError(c.t, err)
	return token
}

func TestLogin_StoresToken(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("login", "--username", "cook", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as cook.")
	assert.NotEmpty(t, c.storedToken())
}

func TestLogin_BadPasswordFails(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("login", "-u", "cook", "-p", "nope")
	require.Error(t, err)
	assert.Equal(t, session.LoginFailedMessage, err.Error())
	assert.Empty(t, c.storedToken())
}

func TestRecipeCommandsRequireLogin(t *testing.T) {
	c := newCLI(t)

	for _, args := range [][]string{{"list"}, {"show", "1"}, {"delete", "1", "--yes"}} {
		_, err := c.run(args...)
		require.Error(t, err, args)
		assert.ErrorIs(t, err, errNotLoggedIn, args)
	}
	assert.Empty(t, c.server.Calls())
}

func TestList_PrintsRecipesAndFilters(t *testing.T) {
	c := newCLI(t)
	c.server.Seed(
		apitest.Recipe{Title: "Pancakes", YieldAmount: "4", Instructions: "Mix."},
		apitest.Recipe{Title: "Soup", YieldAmount: "2 bowls", Instructions: "Simmer."},
	)
	c.login()

	out, err := c.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Pancakes")
	assert.Contains(t, out, "2 bowls")

	out, err = c.run("list", "--search", "pan")
	require.NoError(t, err)
	assert.Contains(t, out, "Pancakes")
	assert.NotContains(t, out, "Soup")

	out, err = c.run("list", "-s", "zzz")
	require.NoError(t, err)
	assert.Contains(t, out, `No recipes match "zzz".`)
}

func TestShow_PrintsMarkdown(t *testing.T) {
	c := newCLI(t)
	seeded := c.server.Seed(apitest.Recipe{
		Title:        "Pancakes",
		YieldAmount:  "4",
		Instructions: "Mix.\nCook.",
		Ingredients:  []apitest.Ingredient{{Name: "flour", Quantity: "2", Unit: "cup"}},
	})
	c.login()

	out, err := c.run("show", strconv.FormatInt(seeded[0].ID, 10), "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "# Pancakes")
	assert.Contains(t, out, "cup flour")
	assert.Contains(t, out, "Mix.  \nCook.")
}

func TestShow_MissingRecipe(t *testing.T) {
	c := newCLI(t)
	c.login()

	_, err := c.run("show", "999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recipe 999 not found")

	_, err = c.run("show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipe id")
}

func TestDelete_WithYesSkipsPrompt(t *testing.T) {
	c := newCLI(t)
	seeded := c.server.Seed(apitest.Recipe{Title: "Soup", YieldAmount: "2", Instructions: "Simmer."})
	c.login()

	out, err := c.run("delete", strconv.FormatInt(seeded[0].ID, 10), "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted recipe")
	assert.Zero(t, c.server.Len())
	assert.Equal(t, 1, c.server.Count(http.MethodDelete, "/api/recipes/"))
}

func TestLogout_ForgetsToken(t *testing.T) {
	c := newCLI(t)
	c.login()

	out, err := c.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")
	assert.Empty(t, c.storedToken())

	_, err = c.run("list")
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestRejectedTokenExpiresSession(t *testing.T) {
	c := newCLI(t)
	store, err := tokenstore.NewFileStore(c.tokenFile)
	require.NoError(t, err)
	require.NoError(t, store.Save("revoked"))

	_, err = c.run("list")
	require.Error(t, err)
	assert.Equal(t, session.ExpiredMessage, err.Error())
	assert.Empty(t, c.storedToken())
}
