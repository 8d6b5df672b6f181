package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/models"
	"github.com/dmitrijs2005/menuup/internal/client/session"
	"github.com/dmitrijs2005/menuup/internal/devbackend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedInStore(t *testing.T, token string) *session.Store {
	t.Helper()
	store := session.NewStore(nil, nil)
	t.Cleanup(store.Close)
	if token != "" {
		require.NoError(t, store.SetSession(token, &models.User{ID: "1", Email: "a@x.com"}))
	}
	return store
}

func validDraft() models.RecipeDraft {
	return models.RecipeDraft{
		Title:       " Pão de queijo ",
		Type:        models.TypeSnacks,
		Published:   true,
		Ingredients: []models.Ingredient{{Name: "Polvilho", Quantity: "500 g"}, {Name: " ", Quantity: ""}},
		Steps:       []string{"Misture", "  ", "Asse"},
		Images:      []models.ImageFile{{MimeType: "image/png", Data: []byte{1}}},
	}
}

func TestHighlights_LimitsToEight(t *testing.T) {
	fake := &fakeClient{}
	for i := 1; i <= 12; i++ {
		fake.ListRet = append(fake.ListRet, models.RecipeSummary{ID: int64(i), Title: fmt.Sprintf("r%d", i)})
	}
	svc := NewRecipeService(fake, signedInStore(t, ""), nil)

	got, err := svc.Highlights(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, HighlightsLimit)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, api.RecipeFilter{}, fake.LastFilter)
}

func TestHighlights_Error(t *testing.T) {
	fake := &fakeClient{ListErr: api.ErrUnavailable}
	_, err := NewRecipeService(fake, signedInStore(t, ""), nil).Highlights(context.Background())
	require.ErrorIs(t, err, api.ErrUnavailable)
}

func TestSearch_NormalisesFilterAndSendsToken(t *testing.T) {
	fake := &fakeClient{}
	svc := NewRecipeService(fake, signedInStore(t, "tok"), nil)

	_, err := svc.Search(context.Background(), "  bolo ", "bolos")
	require.NoError(t, err)
	assert.Equal(t, api.RecipeFilter{Search: "bolo", Type: models.TypeCakes}, fake.LastFilter)
	assert.Equal(t, "tok", fake.LastToken)
}

func TestSearch_UnknownType(t *testing.T) {
	fake := &fakeClient{}
	_, err := NewRecipeService(fake, signedInStore(t, ""), nil).Search(context.Background(), "", "PIZZA")
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestGet(t *testing.T) {
	fake := &fakeClient{GetRet: &models.Recipe{ID: 3, Title: "Sopa"}}
	svc := NewRecipeService(fake, signedInStore(t, ""), nil)

	got, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "Sopa", got.Title)

	_, err = svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, models.ErrValidation)

	fake.GetErr = api.ErrNotFound
	_, err = svc.Get(context.Background(), 4)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestCreate_RequiresSession(t *testing.T) {
	fake := &fakeClient{}
	_, err := NewRecipeService(fake, signedInStore(t, ""), nil).Create(context.Background(), validDraft())
	require.ErrorIs(t, err, ErrNotSignedIn)
	assert.Empty(t, fake.LastNew.Title)
}

func TestCreate_ValidatesBeforeNetwork(t *testing.T) {
	fake := &fakeClient{}
	draft := validDraft()
	draft.Steps = []string{" "}

	_, err := NewRecipeService(fake, signedInStore(t, "tok"), nil).Create(context.Background(), draft)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, fake.LastToken)
}

func TestCreate_SendsPayload(t *testing.T) {
	fake := &fakeClient{}
	got, err := NewRecipeService(fake, signedInStore(t, "tok"), nil).Create(context.Background(), validDraft())
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.ID)

	assert.Equal(t, "tok", fake.LastToken)
	assert.Equal(t, "Pão de queijo", fake.LastNew.Title)
	assert.Equal(t, []models.Ingredient{{Name: "Polvilho", Quantity: "500 g"}}, fake.LastNew.Ingredients)
	assert.Equal(t, []models.Step{{Order: 1, Text: "Misture"}, {Order: 2, Text: "Asse"}}, fake.LastNew.Steps)
	assert.Equal(t, []string{"data:image/png;base64,AQ=="}, fake.LastNew.Images)
}

func TestCreate_AgainstBackend(t *testing.T) {
	e := newEnv(t)
	devbackend.Seed(e.backend)
	ctx := context.Background()
	require.True(t, e.auth.Login(ctx, devbackend.DemoEmail, devbackend.DemoPassword))

	svc := NewRecipeService(e.client, e.store, nil)
	created, err := svc.Create(ctx, validDraft())
	require.NoError(t, err)

	found, err := svc.Search(ctx, "queijo", "")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, created.ID, found[0].ID)

	full, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Image{{DataBase64: "AQ=="}}, full.Images)
}
