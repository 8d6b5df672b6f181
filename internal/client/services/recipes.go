package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

// HighlightsLimit is how many recipes the home screen shows.
const HighlightsLimit = 8

// RecipeService reads and publishes recipes. Reads send the session token
// when there is one; Create requires it.
type RecipeService interface {
	Highlights(ctx context.Context) ([]models.RecipeSummary, error)
	Search(ctx context.Context, query string, typ models.RecipeType) ([]models.RecipeSummary, error)
	Get(ctx context.Context, id int64) (*models.Recipe, error)
	Create(ctx context.Context, draft models.RecipeDraft) (*models.Recipe, error)
}

type recipeService struct {
	client api.Client
	store  SessionStore
	log    logging.Logger
}

func NewRecipeService(client api.Client, store SessionStore, log logging.Logger) RecipeService {
	if log == nil {
		log = logging.Discard()
	}
	return &recipeService{client: client, store: store, log: log}
}

func (r *recipeService) token() string {
	return r.store.Snapshot().Token
}

func (r *recipeService) Highlights(ctx context.Context) ([]models.RecipeSummary, error) {
	list, err := r.client.ListPublicRecipes(ctx, r.token(), api.RecipeFilter{})
	if err != nil {
		return nil, fmt.Errorf("load highlights: %w", err)
	}
	if len(list) > HighlightsLimit {
		list = list[:HighlightsLimit]
	}
	return list, nil
}

func (r *recipeService) Search(ctx context.Context, query string, typ models.RecipeType) ([]models.RecipeSummary, error) {
	if typ != "" {
		parsed, err := models.ParseRecipeType(string(typ))
		if err != nil {
			return nil, err
		}
		typ = parsed
	}

	filter := api.RecipeFilter{Search: strings.TrimSpace(query), Type: typ}
	list, err := r.client.ListPublicRecipes(ctx, r.token(), filter)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return list, nil
}

func (r *recipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid recipe id %d", models.ErrValidation, id)
	}
	rec, err := r.client.GetRecipe(ctx, r.token(), id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %d: %w", id, err)
	}
	return rec, nil
}

func (r *recipeService) Create(ctx context.Context, draft models.RecipeDraft) (*models.Recipe, error) {
	payload, err := draft.Payload()
	if err != nil {
		return nil, err
	}

	token := r.token()
	if token == "" {
		return nil, ErrNotSignedIn
	}

	rec, err := r.client.CreateRecipe(ctx, token, payload)
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	r.log.Info(ctx, "recipe created", "id", rec.ID, "title", rec.Title)
	return rec, nil
}
