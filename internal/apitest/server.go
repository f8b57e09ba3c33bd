// Package apitest runs an in-process fake of the recipe API for tests.
//
// The fake mirrors the real service closely enough to exercise the client end
// to end: JWT-style token exchange, bearer auth on every recipe route, a
// case-insensitive title search, newest-first ordering, decimal quantities
// returned as strings, and 204 on delete.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

// Call records one request the fake served.
type Call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
}

// Ingredient is the server-side ingredient shape.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// Recipe is the server-side recipe shape.
type Recipe struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Instructions string       `json:"instructions"`
	YieldAmount  string       `json:"yield_amount"`
	Ingredients  []Ingredient `json:"ingredients"`
	UpdatedAt    string       `json:"updated_at"`

	revision int64
}

type summary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	YieldAmount string `json:"yield_amount"`
}

type failure struct {
	status int
	detail string
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string
	tokens   map[string]string
	recipes  map[int64]*Recipe
	nextID   int64
	revision int64
	calls    []Call
	failNext map[string]failure
	clock    time.Time
}

// New starts a fake server and stops it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		users:    make(map[string]string),
		tokens:   make(map[string]string),
		recipes:  make(map[int64]*Recipe),
		failNext: make(map[string]failure),
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record, s.injectFailure)

	e.POST("/api/token/", s.obtainToken)

	g := e.Group("/api/recipes", s.requireAuth)
	g.GET("/", s.listRecipes)
	g.POST("/", s.createRecipe)
	g.GET("/:id/", s.getRecipe)
	g.PUT("/:id/", s.updateRecipe)
	g.DELETE("/:id/", s.deleteRecipe)
	return e
}

// AddUser registers credentials accepted by the token endpoint.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// IssueToken returns a valid token for username without a request.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(username)
}

// Seed stores recipes directly and returns them with ids assigned. Later
// entries are newer.
func (s *Server) Seed(recipes ...Recipe) []Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		stored := s.storeLocked(0, r)
		out = append(out, *stored)
	}
	return out
}

// Recipe returns the stored recipe with id.
func (s *Server) Recipe(id int64) (Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return Recipe{}, false
	}
	return *r, true
}

// Len returns the number of stored recipes.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recipes)
}

// FailNext makes the next request with method answer status and detail.
func (s *Server) FailNext(method string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[strings.ToUpper(method)] = failure{status: status, detail: detail}
}

// Calls returns a copy of the request log.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Count returns how many requests matched method and a path prefix.
func (s *Server) Count(method, pathPrefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method && strings.HasPrefix(c.Path, pathPrefix) {
			n++
		}
	}
	return n
}

// ResetCalls clears the request log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:        req.Method,
			Path:          req.URL.Path,
			Query:         req.URL.RawQuery,
			Authorization: req.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) injectFailure(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		method := c.Request().Method
		s.mu.Lock()
		f, ok := s.failNext[method]
		if ok {
			delete(s.failNext, method)
		}
		s.mu.Unlock()
		if !ok {
			return next(c)
		}
		if f.detail == "" {
			return c.NoContent(f.status)
		}
		return c.JSON(f.status, map[string]string{"detail": f.detail})
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
		}
		s.mu.Lock()
		_, valid := s.tokens[token]
		s.mu.Unlock()
		if !valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
		}
		return next(c)
	}
}

func (s *Server) obtainToken(c echo.Context) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "Malformed request."})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	want, ok := s.users[body.Username]
	if !ok || want != body.Password || body.Password == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "No active account found with the given credentials"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"access":  s.issueLocked(body.Username),
		"refresh": "refresh-" + body.Username,
	})
}

func (s *Server) listRecipes(c echo.Context) error {
	term := strings.ToLower(strings.TrimSpace(c.QueryParam("search")))

	s.mu.Lock()
	matches := make([]*Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if term == "" || strings.Contains(strings.ToLower(r.Title), term) {
			matches = append(matches, r)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].revision > matches[j].revision })
	out := make([]summary, 0, len(matches))
	for _, r := range matches {
		out = append(out, summary{ID: r.ID, Title: r.Title, YieldAmount: r.YieldAmount})
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, out)
}

func (s *Server) getRecipe(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	s.mu.Lock()
	r, ok := s.recipes[id]
	var out Recipe
	if ok {
		out = *r
	}
	s.mu.Unlock()
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createRecipe(c echo.Context) error {
	in, errs := decodeInput(c)
	if errs != nil {
		return c.JSON(http.StatusBadRequest, errs)
	}
	s.mu.Lock()
	stored := *s.storeLocked(0, in)
	s.mu.Unlock()
	return c.JSON(http.StatusCreated, stored)
}

func (s *Server) updateRecipe(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	in, errs := decodeInput(c)
	if errs != nil {
		return c.JSON(http.StatusBadRequest, errs)
	}
	s.mu.Lock()
	if _, ok := s.recipes[id]; !ok {
		s.mu.Unlock()
		return notFound(c)
	}
	stored := *s.storeLocked(id, in)
	s.mu.Unlock()
	return c.JSON(http.StatusOK, stored)
}

func (s *Server) deleteRecipe(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return notFound(c)
	}
	s.mu.Lock()
	_, ok := s.recipes[id]
	delete(s.recipes, id)
	s.mu.Unlock()
	if !ok {
		return notFound(c)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) issueLocked(username string) string {
	token := fmt.Sprintf("token-%s-%d", username, len(s.tokens)+1)
	s.tokens[token] = username
	return token
}

// storeLocked writes r under id (a new id when zero) and bumps its revision.
func (s *Server) storeLocked(id int64, r Recipe) *Recipe {
	if id == 0 {
		s.nextID++
		id = s.nextID
	}
	s.revision++
	s.clock = s.clock.Add(time.Minute)
	r.ID = id
	r.revision = s.revision
	r.UpdatedAt = s.clock.Format(time.RFC3339Nano)
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	stored := r
	stored.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	s.recipes[id] = &stored
	return &stored
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

type inputBody struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
	YieldAmount  string `json:"yield_amount"`
	Ingredients  []struct {
		Name     string          `json:"name"`
		Quantity json.RawMessage `json:"quantity"`
		Unit     string          `json:"unit"`
	} `json:"ingredients"`
}

// decodeInput validates a create/update body the way the real serializer
// does and normalizes quantities to two decimal places.
func decodeInput(c echo.Context) (Recipe, map[string]any) {
	var body inputBody
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return Recipe{}, map[string]any{"detail": "JSON parse error"}
	}

	errs := map[string]any{}
	blank := []string{"This field may not be blank."}
	if strings.TrimSpace(body.Title) == "" {
		errs["title"] = blank
	}
	if strings.TrimSpace(body.Instructions) == "" {
		errs["instructions"] = blank
	}
	if strings.TrimSpace(body.YieldAmount) == "" {
		errs["yield_amount"] = blank
	}
	if body.Ingredients == nil {
		errs["ingredients"] = []string{"This field is required."}
	}

	out := Recipe{
		Title:        body.Title,
		Instructions: body.Instructions,
		YieldAmount:  body.YieldAmount,
		Ingredients:  make([]Ingredient, 0, len(body.Ingredients)),
	}
	var rowErrs []map[string][]string
	invalid := false
	for _, ing := range body.Ingredients {
		rowErr := map[string][]string{}
		qty, ok := decimal(ing.Quantity)
		if !ok {
			rowErr["quantity"] = []string{"A valid number is required."}
		}
		if strings.TrimSpace(ing.Name) == "" {
			rowErr["name"] = blank
		}
		if strings.TrimSpace(ing.Unit) == "" {
			rowErr["unit"] = blank
		}
		if len(rowErr) > 0 {
			invalid = true
		}
		rowErrs = append(rowErrs, rowErr)
		out.Ingredients = append(out.Ingredients, Ingredient{Name: ing.Name, Quantity: qty, Unit: ing.Unit})
	}
	if invalid {
		errs["ingredients"] = rowErrs
	}
	if len(errs) > 0 {
		return Recipe{}, errs
	}
	return out, nil
}

func decimal(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		text = string(raw)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(v, 'f', 2, 64), true
}
