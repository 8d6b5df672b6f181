package api

import (
	"context"

	"github.com/dmitrijs2005/menuup/internal/client/models"
)

// LoginResult is the body of a successful /auth/login.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RecipeFilter narrows /receitas/publicas. Zero values are omitted.
type RecipeFilter struct {
	Search string
	Type   models.RecipeType
}

// Client is the backend contract. Calls that take a token send it as a
// bearer credential; an empty token sends no Authorization header.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context, token string) error
	ValidateToken(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, token string, change models.PasswordChange) error

	ListPublicRecipes(ctx context.Context, token string, filter RecipeFilter) ([]models.RecipeSummary, error)
	GetRecipe(ctx context.Context, token string, id int64) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, token string, recipe models.NewRecipe) (*models.Recipe, error)
}
