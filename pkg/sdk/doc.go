// Package recipedex embeds the recipe recommendation engine in a Go program.
//
// The client loads a recipe corpus (CSV or Parquet) together with its prebuilt
// TF-IDF artifact and answers recommendation queries in-process, without the HTTP API.
//
//	client, _ := recipedex.New(
//	    recipedex.WithCorpus("data/preprocessed_recipes.csv"),
//	    recipedex.WithArtifact("data/tfidf.json"),
//	)
//	recs, _ := client.Recommend(recipedex.Preferences{
//	    Diet:       "Vegetarian",
//	    Tastes:     []string{"Spicy"},
//	    Conditions: []string{"Diabetes"},
//	})
//
// # Healthy selection
//
//	max := 400.0
//	recs, _ := client.RecommendHealthy(prefs, recipedex.Budget{MaxCalories: &max})
//
// Unset budget fields keep the client defaults (see WithBudget).
package recipedex
