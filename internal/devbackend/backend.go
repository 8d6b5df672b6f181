// Package devbackend is an in-memory implementation of the MenuUp recipe
// backend's HTTP contract. cmd/devserver serves it for local development and
// the client packages use it in tests through httptest.
//
// Besides the real routes it exposes knobs tests need: forced responses per
// route, an artificial delay, token revocation and per-route call counters.
package devbackend

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/common"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// DefaultTokenTTL is the lifetime of tokens issued by /auth/login.
const DefaultTokenTTL = 24 * time.Hour

type account struct {
	user     models.User
	password string
}

type forced struct {
	status int
	body   any
}

type Backend struct {
	secret   []byte
	tokenTTL time.Duration

	mu       sync.Mutex
	accounts map[string]*account // by e-mail
	revoked  map[string]bool
	recipes  []models.Recipe
	nextID   int64
	forced   map[string]forced
	delay    time.Duration
	calls    map[string]int
}

func New(secret []byte) *Backend {
	return &Backend{
		secret:   secret,
		tokenTTL: DefaultTokenTTL,
		accounts: make(map[string]*account),
		revoked:  make(map[string]bool),
		nextID:   1,
		forced:   make(map[string]forced),
		calls:    make(map[string]int),
	}
}

// AddUser registers an account directly and returns its profile.
func (b *Backend) AddUser(name, email, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(name, email, password)
}

func (b *Backend) addUserLocked(name, email, password string) models.User {
	u := models.User{ID: models.UserID(uuid.NewString()), Email: email, Name: name}
	b.accounts[strings.ToLower(email)] = &account{user: u, password: password}
	return u
}

// AddRecipe stores r, assigning it the next id.
func (b *Backend) AddRecipe(r models.Recipe) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = b.nextID
	b.nextID++
	b.recipes = append(b.recipes, r)
	return r.ID
}

// IssueToken mints a token for an existing account, as a login would.
func (b *Backend) IssueToken(email string, ttl time.Duration) (string, error) {
	b.mu.Lock()
	acc, ok := b.accounts[strings.ToLower(email)]
	b.mu.Unlock()
	if !ok {
		return "", common.ErrorNotFound
	}
	return GenerateToken(string(acc.user.ID), b.secret, ttl)
}

// Revoke makes token fail validation from now on.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = true
}

// Force makes route ("METHOD /path-template", e.g. "GET /auth/validate-token")
// answer with status and body until Unforce is called.
func (b *Backend) Force(route string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forced[route] = forced{status: status, body: body}
}

func (b *Backend) Unforce(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.forced, route)
}

// SetDelay holds every response for d (simulates a slow backend).
func (b *Backend) SetDelay(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = d
}

// Calls reports how many requests route has received.
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// Handler returns the HTTP routes of the backend.
func (b *Backend) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(b.instrument)

	r.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", b.authenticated(b.logout)).Methods(http.MethodPost)
	r.HandleFunc("/auth/validate-token", b.authenticated(b.validateToken)).Methods(http.MethodGet)
	r.HandleFunc("/auth/change-password", b.authenticated(b.changePassword)).Methods(http.MethodPatch)
	r.HandleFunc("/receitas/publicas", b.listPublic).Methods(http.MethodGet)
	r.HandleFunc("/receitas/create", b.authenticated(b.createRecipe)).Methods(http.MethodPost)
	r.HandleFunc("/receitas/{id:[0-9]+}", b.getRecipe).Methods(http.MethodGet)
	return r
}

// instrument counts calls, applies the configured delay and serves forced
// responses before the real handler runs.
func (b *Backend) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = r.Method + " " + tpl
			}
		}

		b.mu.Lock()
		b.calls[route]++
		delay := b.delay
		f, isForced := b.forced[route]
		b.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if isForced {
			writeJSON(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) authenticated(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := common.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "Token não fornecido")
			return
		}
		b.mu.Lock()
		revoked := b.revoked[token]
		b.mu.Unlock()
		if revoked {
			writeError(w, http.StatusUnauthorized, "Token revogado")
			return
		}
		userID, err := UserIDFromToken(token, b.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token inválido ou expirado")
			return
		}
		next(w, r, userID)
	}
}

func (b *Backend) accountByID(id string) *account {
	for _, acc := range b.accounts {
		if string(acc.user.ID) == id {
			return acc
		}
	}
	return nil
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[strings.ToLower(req.Email)]
	b.mu.Unlock()
	if !ok || acc.password != req.Senha {
		writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := GenerateToken(string(acc.user.ID), b.secret, b.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": acc.user})
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
		Senha string `json:"senha"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	var problems []string
	if strings.TrimSpace(req.Nome) == "" {
		problems = append(problems, "nome é obrigatório")
	}
	if !strings.Contains(req.Email, "@") {
		problems = append(problems, "email inválido")
	}
	if len(req.Senha) < models.MinPasswordLength {
		problems = append(problems, "senha muito curta")
	}
	if len(problems) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": problems})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.accounts[strings.ToLower(req.Email)]; exists {
		writeError(w, http.StatusConflict, "E-mail já cadastrado")
		return
	}
	b.addUserLocked(req.Nome, req.Email, req.Senha)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func (b *Backend) logout(w http.ResponseWriter, r *http.Request, _ string) {
	b.Revoke(common.BearerToken(r.Header.Get(common.AuthorizationHeaderName)))
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) validateToken(w http.ResponseWriter, _ *http.Request, userID string) {
	b.mu.Lock()
	acc := b.accountByID(userID)
	b.mu.Unlock()
	if acc == nil {
		writeError(w, http.StatusUnauthorized, "Usuário não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "user": acc.user})
}

func (b *Backend) changePassword(w http.ResponseWriter, r *http.Request, userID string) {
	var req models.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Nova senha inválida")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	acc := b.accountByID(userID)
	if acc == nil || acc.password != req.Current {
		writeError(w, http.StatusUnauthorized, "Senha atual incorreta")
		return
	}
	acc.password = req.New
	writeJSON(w, http.StatusOK, map[string]any{"message": "Senha alterada"})
}

func (b *Backend) listPublic(w http.ResponseWriter, r *http.Request) {
	search := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("search")))
	typ := models.RecipeType(strings.ToUpper(r.URL.Query().Get("type")))

	b.mu.Lock()
	out := make([]models.RecipeSummary, 0, len(b.recipes))
	for _, rec := range b.recipes {
		if !rec.Published {
			continue
		}
		if typ != "" && rec.Type != typ {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rec.Title), search) {
			continue
		}
		out = append(out, models.RecipeSummary{ID: rec.ID, Title: rec.Title, Type: rec.Type, Images: rec.Images})
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getRecipe(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, rec := range b.recipes {
		if formatID(rec.ID) == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Receita não encontrada")
}

func (b *Backend) createRecipe(w http.ResponseWriter, r *http.Request, _ string) {
	var req models.NewRecipe
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.Type == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": []string{"titulo e tipo são obrigatórios"}})
		return
	}

	rec := models.Recipe{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Published:   req.Published,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
	}
	for _, uri := range req.Images {
		if _, data, ok := strings.Cut(uri, ";base64,"); ok {
			rec.Images = append(rec.Images, models.Image{DataBase64: data})
		}
	}

	b.mu.Lock()
	rec.ID = b.nextID
	b.nextID++
	b.recipes = append(b.recipes, rec)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, rec)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	if body == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
