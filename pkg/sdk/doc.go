// Package hydrosearch embeds the hydrosearch query pipeline in a Go program.
//
// A free-text hydrology query is turned into satellite catalog search
// parameters: matching collection ids, a bounding box and a date interval.
//
//	client, _ := hydrosearch.New(
//	    hydrosearch.WithAPIKey(os.Getenv("MISTRAL_AI_API_KEY")),
//	    hydrosearch.WithModel("mistral-large-latest"),
//	)
//	params, _ := client.SearchParams(ctx, "lake levels in the Pyrenees, summer 2024")
//	items, _ := client.StacSearch(ctx, params)
package hydrosearch
