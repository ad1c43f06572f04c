// Package corpus loads the recipe corpus from CSV or Parquet files.
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/recipedex/internal/domain/recipe"
)

// Column names shared by both formats.
const (
	colID          = "id"
	colName        = "name"
	colTagsCleaned = "tags_cleaned"
	colTags        = "tags"
	colIngredients = "ingredients"
	colSteps       = "steps"
	colNutrition   = "nutrition"
)

var requiredColumns = []string{colID, colName, colTagsCleaned, colIngredients, colSteps, colNutrition}

// row is a single corpus record before parsing. List and nutrition columns hold
// their serialized text form.
type row struct {
	ID          int64  `parquet:"id"`
	Name        string `parquet:"name"`
	TagsCleaned string `parquet:"tags_cleaned,optional"`
	Tags        string `parquet:"tags,optional"`
	Ingredients string `parquet:"ingredients"`
	Steps       string `parquet:"steps"`
	Nutrition   string `parquet:"nutrition,optional"`
}

// Loader reads corpus files. Row order is preserved.
type Loader struct {
	logger *zap.Logger
}

// New creates a corpus loader.
func New(logger *zap.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the corpus at path, choosing the format by extension (.csv or .parquet).
func (l *Loader) Load(path string) ([]recipe.Recipe, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open corpus: %w", err)
		}
		defer f.Close()
		return l.ReadCSV(f)
	case ".parquet":
		return l.ReadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported corpus format %q", filepath.Ext(path))
	}
}

// ReadCSV reads a headered CSV corpus. Unknown columns are ignored.
func (l *Loader) ReadCSV(r io.Reader) ([]recipe.Recipe, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("corpus is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var rows []row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		id, err := strconv.ParseInt(strings.TrimSpace(field(colID)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id: %w", line, err)
		}
		rows = append(rows, row{
			ID:          id,
			Name:        field(colName),
			TagsCleaned: field(colTagsCleaned),
			Tags:        field(colTags),
			Ingredients: field(colIngredients),
			Steps:       field(colSteps),
			Nutrition:   field(colNutrition),
		})
	}

	return l.build(rows)
}

// ReadParquet reads a Parquet corpus whose columns match the CSV header names.
func (l *Loader) ReadParquet(path string) ([]recipe.Recipe, error) {
	rows, err := parquet.ReadFile[row](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return l.build(rows)
}

func (l *Loader) build(rows []row) ([]recipe.Recipe, error) {
	out := make([]recipe.Recipe, 0, len(rows))
	malformed := 0
	for i, rw := range rows {
		ingredients, err := recipe.ParseList(rw.Ingredients)
		if err != nil {
			return nil, fmt.Errorf("row %d (id %d): ingredients: %w", i, rw.ID, err)
		}
		steps, err := recipe.ParseList(rw.Steps)
		if err != nil {
			return nil, fmt.Errorf("row %d (id %d): steps: %w", i, rw.ID, err)
		}

		nutrition, ok := recipe.ParseNutrition(rw.Nutrition)
		if !ok {
			malformed++
			l.logger.Debug("Malformed nutrition, using zeros",
				zap.Int64("id", rw.ID), zap.String("nutrition", rw.Nutrition))
		}

		r, err := recipe.New(int(rw.ID), rw.Name, rw.TagsCleaned, rw.Tags, ingredients, steps, nutrition)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, r)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("corpus has no recipes")
	}
	l.logger.Info("Corpus loaded", zap.Int("recipes", len(out)), zap.Int("malformed_nutrition", malformed))
	return out, nil
}
