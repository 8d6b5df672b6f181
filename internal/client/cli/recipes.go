package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/models"
)

// Highlights lists the first public recipes, like the home screen does.
func (a *App) Highlights(ctx context.Context) error {
	list, err := a.recipes.Highlights(ctx)
	if err != nil {
		a.reportError("Could not load recipes", err)
		return err
	}
	a.printSummaries(list)
	return nil
}

// Search lists public recipes whose title matches query.
func (a *App) Search(ctx context.Context, query string) error {
	list, err := a.recipes.Search(ctx, query, "")
	if err != nil {
		a.reportError("Search failed", err)
		return err
	}
	a.printSummaries(list)
	return nil
}

// Category lists public recipes of one type, e.g. "sopas".
func (a *App) Category(ctx context.Context, typ string) error {
	list, err := a.recipes.Search(ctx, "", models.RecipeType(typ))
	if err != nil {
		a.reportError("Search failed", err)
		return err
	}
	a.printSummaries(list)
	return nil
}

// Types prints the recipe categories.
func (a *App) Types(ctx context.Context) error {
	for _, t := range models.RecipeTypes {
		a.printf("  %-20s %s\n", strings.ToLower(string(t)), t.Label())
	}
	return nil
}

// Show prints one recipe in full.
func (a *App) Show(ctx context.Context, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		a.printf("Invalid recipe id %q\n", id)
		return err
	}
	rec, err := a.recipes.Get(ctx, n)
	if err != nil {
		a.reportError("Could not load the recipe", err)
		return err
	}

	a.printf("#%d %s [%s]\n", rec.ID, rec.Title, rec.Type.Label())
	if rec.Description != "" {
		a.printf("%s\n", rec.Description)
	}
	a.printf("\nIngredients:\n")
	for _, i := range rec.Ingredients {
		a.printf("  - %s: %s\n", i.Name, i.Quantity)
	}
	a.printf("\nSteps:\n")
	for _, s := range rec.Steps {
		a.printf("  %d. %s\n", s.Order, s.Text)
	}
	if len(rec.Images) > 0 {
		a.printf("\n(%d image(s))\n", len(rec.Images))
	}
	return nil
}

// Create walks the author through a new recipe and submits it.
func (a *App) Create(ctx context.Context) error {
	draft, err := a.inputDraft()
	if err != nil {
		a.reportError("Recipe not created", err)
		return err
	}

	rec, err := a.recipes.Create(ctx, draft)
	if err != nil {
		a.reportError("Recipe not created", err)
		return err
	}
	a.printf("Recipe #%d %q created.\n", rec.ID, rec.Title)
	return nil
}

func (a *App) inputDraft() (models.RecipeDraft, error) {
	var d models.RecipeDraft

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return d, err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return d, err
	}
	typ, err := getSimpleText(a.reader, "Enter type (see 'types')", a.out)
	if err != nil {
		return d, err
	}
	parsed, err := models.ParseRecipeType(typ)
	if err != nil {
		return d, err
	}

	lines, err := GetLines(a.reader, "Enter ingredients, one \"name; quantity\" per line", a.out)
	if err != nil {
		return d, err
	}
	ingredients, err := ParseIngredients(lines)
	if err != nil {
		return d, err
	}

	steps, err := GetLines(a.reader, "Enter steps, one per line", a.out)
	if err != nil {
		return d, err
	}

	paths, err := GetLines(a.reader, "Enter image file paths (optional)", a.out)
	if err != nil {
		return d, err
	}
	images := make([]models.ImageFile, 0, len(paths))
	for _, p := range paths {
		img, err := ReadImage(strings.TrimSpace(p))
		if err != nil {
			return d, err
		}
		images = append(images, img)
	}

	publish, err := getSimpleText(a.reader, "Publish now? (y/N)", a.out)
	if err != nil {
		return d, err
	}

	d = models.RecipeDraft{
		Title:       title,
		Description: description,
		Type:        parsed,
		Published:   strings.EqualFold(publish, "y") || strings.EqualFold(publish, "yes"),
		Ingredients: ingredients,
		Steps:       steps,
		Images:      images,
	}
	return d, nil
}

func (a *App) printSummaries(list []models.RecipeSummary) {
	if len(list) == 0 {
		a.printf("No recipes found.\n")
		return
	}
	for _, r := range list {
		a.printf("  #%-5d %s [%s]\n", r.ID, r.Title, r.Type.Label())
	}
}

// reportError prints a one-line explanation. Validation problems are shown
// as they are; network failures get a hint instead of the raw error.
func (a *App) reportError(what string, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		a.printf("%s: %s\n", what, err)
	case errors.Is(err, api.ErrUnavailable):
		a.printf("%s: server unavailable, try again later.\n", what)
	case errors.Is(err, api.ErrNotFound):
		a.printf("%s: not found.\n", what)
	default:
		a.printf("%s: %s\n", what, err)
	}
}
