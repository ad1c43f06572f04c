package catalog

import (
	"fmt"

	"github.com/kailas-cloud/recipedex/internal/domain"
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/vectorspace"
)

// Catalog pairs the recipe corpus with its vector space.
// Row i of the corpus always corresponds to row i of the space; neither half can be
// reordered or replaced after construction. Safe for concurrent reads.
type Catalog struct {
	recipes []recipe.Recipe
	space   vectorspace.Space
	byID    map[int]int
}

// New validates alignment and creates a Catalog.
func New(recipes []recipe.Recipe, space vectorspace.Space) (*Catalog, error) {
	if space == nil {
		return nil, fmt.Errorf("vector space is required")
	}
	if len(recipes) != space.Rows() {
		return nil, fmt.Errorf("%w: %d recipes, %d vectors",
			domain.ErrCatalogMisaligned, len(recipes), space.Rows())
	}

	byID := make(map[int]int, len(recipes))
	for i := range recipes {
		id := recipes[i].ID()
		if prev, dup := byID[id]; dup {
			return nil, fmt.Errorf("duplicate recipe id %d at rows %d and %d", id, prev, i)
		}
		byID[id] = i
	}

	return &Catalog{
		recipes: append([]recipe.Recipe(nil), recipes...),
		space:   space,
		byID:    byID,
	}, nil
}

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.recipes) }

// Recipe returns the recipe at row i.
func (c *Catalog) Recipe(i int) recipe.Recipe { return c.recipes[i] }

// Row returns the precomputed vector at row i.
func (c *Catalog) Row(i int) vectorspace.Vector { return c.space.Row(i) }

// Embed maps free text into the catalog's vector space.
func (c *Catalog) Embed(text string) vectorspace.Vector { return c.space.Embed(text) }

// Dim returns the vector space dimension.
func (c *Catalog) Dim() int { return c.space.Dim() }

// IndexOf returns the row of the recipe with the given id.
func (c *Catalog) IndexOf(id int) (int, bool) {
	i, ok := c.byID[id]
	return i, ok
}

// ByID returns the recipe with the given id or domain.ErrNotFound.
func (c *Catalog) ByID(id int) (recipe.Recipe, error) {
	i, ok := c.byID[id]
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
	}
	return c.recipes[i], nil
}
