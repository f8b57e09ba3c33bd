package session

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshiujjwal/lab37hw/internal/api"
	"github.com/joshiujjwal/lab37hw/internal/apitest"
	"github.com/joshiujjwal/lab37hw/internal/tokenstore"
)

type failingStore struct {
	tokenstore.MemoryStore
}

func (f *failingStore) Load() (string, error) { return "", errors.New("corrupt") }
func (f *failingStore) Clear() error          { return errors.New("read-only") }

func newClient(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	server := apitest.New(t)
	server.AddUser("cook", "secret")
	client, err := api.NewClient(server.URL)
	require.NoError(t, err)
	return server, client
}

func TestNew_SeedsFromStore(t *testing.T) {
	s := New(tokenstore.NewMemoryStore("persisted"), nil, nil)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "persisted", s.Token())

	s = New(tokenstore.NewMemoryStore(""), nil, nil)
	assert.False(t, s.Authenticated())
}

func TestNew_UnreadableStoreIsAnonymous(t *testing.T) {
	s := New(&failingStore{}, nil, nil)
	assert.False(t, s.Authenticated())
}

func TestLogin_PersistsTokenAcrossRestart(t *testing.T) {
	_, client := newClient(t)
	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "session.toml"))
	require.NoError(t, err)

	s := New(store, client, nil)
	require.NoError(t, s.Login(context.Background(), "cook", "secret"))
	assert.True(t, s.Authenticated())

	restarted := New(store, client, nil)
	assert.Equal(t, s.Token(), restarted.Token())
}

type paddedExchanger struct{ token string }

func (p paddedExchanger) ObtainToken(context.Context, string, string) (string, error) {
	return p.token, nil
}

func TestLogin_AdoptsTheTokenItPersists(t *testing.T) {
	store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "session.toml"))
	require.NoError(t, err)

	s := New(store, paddedExchanger{token: "  abc123\n"}, nil)
	require.NoError(t, s.Login(context.Background(), "cook", "secret"))
	assert.Equal(t, "abc123", s.Token())

	restarted := New(store, nil, nil)
	assert.Equal(t, s.Token(), restarted.Token())
}

func TestLogin_BlankTokenFails(t *testing.T) {
	s := New(tokenstore.NewMemoryStore(""), paddedExchanger{token: "   "}, nil)
	err := s.Login(context.Background(), "cook", "secret")
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.False(t, s.Authenticated())
}

func TestLogin_FailureStaysAnonymous(t *testing.T) {
	server, client := newClient(t)
	store := tokenstore.NewMemoryStore("")
	s := New(store, client, nil)

	err := s.Login(context.Background(), "cook", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.False(t, s.Authenticated())
	persisted, _ := store.Load()
	assert.Empty(t, persisted)
	assert.Equal(t, 1, server.Count(http.MethodPost, "/api/token/"))
}

func TestLogin_BlankCredentialsSkipNetwork(t *testing.T) {
	server, client := newClient(t)
	s := New(tokenstore.NewMemoryStore(""), client, nil)

	assert.ErrorIs(t, s.Login(context.Background(), "  ", "secret"), ErrLoginFailed)
	assert.ErrorIs(t, s.Login(context.Background(), "cook", ""), ErrLoginFailed)
	assert.Empty(t, server.Calls())
}

func TestLogout_ClearsEverywhere(t *testing.T) {
	store := tokenstore.NewMemoryStore("abc")
	s := New(store, nil, nil)

	s.Logout()
	assert.False(t, s.Authenticated())
	persisted, _ := store.Load()
	assert.Empty(t, persisted)
}

func TestLogout_StoreErrorIsSwallowed(t *testing.T) {
	store := &failingStore{}
	_ = store.Save("abc")
	s := New(store, nil, nil)
	s.mu.Lock()
	s.token = "abc"
	s.mu.Unlock()

	s.Logout()
	assert.False(t, s.Authenticated())
}

func TestExpire_OnlyDropsMatchingToken(t *testing.T) {
	s := New(tokenstore.NewMemoryStore("current"), nil, nil)

	assert.False(t, s.Expire("stale"))
	assert.True(t, s.Authenticated())

	assert.True(t, s.Expire("current"))
	assert.False(t, s.Authenticated())
	assert.False(t, s.Expire("current"))
}
