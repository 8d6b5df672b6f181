package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// RecipeType is a recipe category as the backend spells it.
type RecipeType string

const (
	TypeDrinks   RecipeType = "BEBIDAS"
	TypeCakes    RecipeType = "BOLOS"
	TypeDesserts RecipeType = "DOCES_E_SOBREMESAS"
	TypeFitness  RecipeType = "FITNES"
	TypeSnacks   RecipeType = "LANCHES"
	TypePasta    RecipeType = "MASSAS"
	TypeSavory   RecipeType = "SALGADOS"
	TypeHealthy  RecipeType = "SAUDAVEL"
	TypeSoups    RecipeType = "SOPAS"
)

// RecipeTypes lists categories in display order.
var RecipeTypes = []RecipeType{
	TypeDrinks, TypeCakes, TypeDesserts, TypeFitness, TypeSnacks,
	TypePasta, TypeSavory, TypeHealthy, TypeSoups,
}

var recipeTypeLabels = map[RecipeType]string{
	TypeDrinks:   "Bebidas",
	TypeCakes:    "Bolos",
	TypeDesserts: "Doces e Sobremesas",
	TypeFitness:  "Fitness",
	TypeSnacks:   "Lanches",
	TypePasta:    "Massas",
	TypeSavory:   "Salgados",
	TypeHealthy:  "Saudável",
	TypeSoups:    "Sopas",
}

// ParseRecipeType accepts a category in any letter case.
func ParseRecipeType(s string) (RecipeType, error) {
	t := RecipeType(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := recipeTypeLabels[t]; !ok {
		return "", fmt.Errorf("%w: unknown recipe type %q", ErrValidation, s)
	}
	return t, nil
}

func (t RecipeType) Label() string {
	if l, ok := recipeTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

type Image struct {
	DataBase64 string `json:"dataBase64"`
}

type Ingredient struct {
	Name     string `json:"nome"`
	Quantity string `json:"quantidade"`
}

type Step struct {
	Order int    `json:"ordemEtapa"`
	Text  string `json:"texto"`
}

// RecipeSummary is an element of /receitas/publicas.
type RecipeSummary struct {
	ID     int64      `json:"id"`
	Title  string     `json:"titulo"`
	Type   RecipeType `json:"tipo"`
	Images []Image    `json:"imagens"`
}

// Recipe is the full detail returned by /receitas/:id and /receitas/create.
type Recipe struct {
	ID          int64        `json:"id"`
	Title       string       `json:"titulo"`
	Description string       `json:"descricao"`
	Type        RecipeType   `json:"tipo"`
	Published   bool         `json:"publicada"`
	Ingredients []Ingredient `json:"ingredientes"`
	Steps       []Step       `json:"passo_a_passo"`
	Images      []Image      `json:"imagens"`
}

// NewRecipe is the body of POST /receitas/create.
type NewRecipe struct {
	Title       string       `json:"titulo"`
	Description string       `json:"descricao"`
	Type        RecipeType   `json:"tipo"`
	Published   bool         `json:"publicada"`
	Ingredients []Ingredient `json:"ingredientes"`
	Steps       []Step       `json:"passo_a_passo"`
	Images      []string     `json:"imagensBase64"`
}

// ImageFile is a picture attached to a draft before upload.
type ImageFile struct {
	MimeType string
	Data     []byte
}

// DataURI renders the image the way the backend expects it. An unknown
// MIME type is sent as image/jpeg.
func (f ImageFile) DataURI() string {
	mime := f.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

// RecipeDraft is what the author fills in before submitting.
type RecipeDraft struct {
	Title       string
	Description string
	Type        RecipeType
	Published   bool
	Ingredients []Ingredient
	Steps       []string
	Images      []ImageFile
}

// Payload validates the draft and converts it to the create request.
// Blank ingredients and steps are dropped; at least one of each must remain.
// Steps are numbered from 1 in the order given.
func (d RecipeDraft) Payload() (NewRecipe, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" || d.Type == "" {
		return NewRecipe{}, fmt.Errorf("%w: title and type are required", ErrValidation)
	}
	if _, ok := recipeTypeLabels[d.Type]; !ok {
		return NewRecipe{}, fmt.Errorf("%w: unknown recipe type %q", ErrValidation, d.Type)
	}

	ingredients := make([]Ingredient, 0, len(d.Ingredients))
	for _, i := range d.Ingredients {
		name, qty := strings.TrimSpace(i.Name), strings.TrimSpace(i.Quantity)
		if name != "" && qty != "" {
			ingredients = append(ingredients, Ingredient{Name: name, Quantity: qty})
		}
	}
	if len(ingredients) == 0 {
		return NewRecipe{}, fmt.Errorf("%w: add at least one ingredient", ErrValidation)
	}

	steps := make([]Step, 0, len(d.Steps))
	for _, s := range d.Steps {
		if text := strings.TrimSpace(s); text != "" {
			steps = append(steps, Step{Order: len(steps) + 1, Text: text})
		}
	}
	if len(steps) == 0 {
		return NewRecipe{}, fmt.Errorf("%w: add at least one step", ErrValidation)
	}

	images := make([]string, 0, len(d.Images))
	for _, img := range d.Images {
		if len(img.Data) > 0 {
			images = append(images, img.DataURI())
		}
	}

	return NewRecipe{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Type:        d.Type,
		Published:   d.Published,
		Ingredients: ingredients,
		Steps:       steps,
		Images:      images,
	}, nil
}
