package devbackend

import "github.com/dmitrijs2005/menuup/internal/client/models"

// Demo credentials created by Seed.
const (
	DemoEmail    = "demo@menuup.app"
	DemoPassword = "demo123"
)

// Seed fills b with a demo account and a few public recipes.
func Seed(b *Backend) {
	b.AddUser("Demo", DemoEmail, DemoPassword)

	b.AddRecipe(models.Recipe{
		Title:       "Frango Agridoce",
		Description: "Clássico rápido para o dia a dia.",
		Type:        models.TypeSavory,
		Published:   true,
		Ingredients: []models.Ingredient{
			{Name: "Peito de frango", Quantity: "500 g"},
			{Name: "Pimentão", Quantity: "1"},
			{Name: "Molho agridoce", Quantity: "1/2 xícara"},
		},
		Steps: []models.Step{
			{Order: 1, Text: "Corte o frango em cubos."},
			{Order: 2, Text: "Doure o frango e junte o pimentão."},
			{Order: 3, Text: "Adicione o molho e cozinhe por 5 minutos."},
		},
	})
	b.AddRecipe(models.Recipe{
		Title:       "Bolo de chocolate",
		Type:        models.TypeCakes,
		Published:   true,
		Ingredients: []models.Ingredient{{Name: "Farinha", Quantity: "2 xícaras"}, {Name: "Cacau", Quantity: "1 xícara"}},
		Steps:       []models.Step{{Order: 1, Text: "Misture tudo."}, {Order: 2, Text: "Asse por 40 minutos."}},
	})
	b.AddRecipe(models.Recipe{
		Title:       "Sopa de legumes",
		Type:        models.TypeSoups,
		Published:   true,
		Ingredients: []models.Ingredient{{Name: "Cenoura", Quantity: "2"}, {Name: "Batata", Quantity: "3"}},
		Steps:       []models.Step{{Order: 1, Text: "Cozinhe os legumes em caldo."}},
	})
	b.AddRecipe(models.Recipe{
		Title:     "Receita rascunho",
		Type:      models.TypeSnacks,
		Published: false,
	})
}
