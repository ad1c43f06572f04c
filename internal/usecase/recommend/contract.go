package recommend

import (
	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
	"github.com/kailas-cloud/recipedex/internal/domain/vectorspace"
)

// Catalog is the read-only corpus and vector space the pipeline runs against.
// Row i of the corpus must correspond to row i of the space.
type Catalog interface {
	Len() int
	Recipe(i int) recipe.Recipe
	Row(i int) vectorspace.Vector
	Embed(text string) vectorspace.Vector
	ByID(id int) (recipe.Recipe, error)
}
