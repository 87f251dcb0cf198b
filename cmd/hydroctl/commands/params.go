package commands

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hydrovibe/hydrosearch/internal/domain/search/result"
	"github.com/hydrovibe/hydrosearch/internal/transport/api"
)

// paramsOutput is printed by `params --stac`.
type paramsOutput struct {
	Params api.SearchParamsResponse `json:"params"`
	Stac   json.RawMessage          `json:"stac"`
}

// ParamsAction resolves the query given as arguments and prints the parameters.
func ParamsAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	p, err := app.Params.Resolve(ctx, queryFromArgs(cmd.Args().Slice()), cmd.String("model"))
	if err != nil {
		return err
	}

	var stac json.RawMessage
	if cmd.Bool("stac") {
		if stac, err = app.Stac.SearchParams(ctx, p); err != nil {
			return err
		}
	}

	return writeParams(output(cmd), p, stac)
}

// queryFromArgs joins unquoted words back into one query.
func queryFromArgs(args []string) string {
	return strings.Join(args, " ")
}

func writeParams(w io.Writer, p result.Params, stac json.RawMessage) error {
	resp := api.NewSearchParamsResponse(p)
	if stac == nil {
		return writeJSON(w, resp)
	}
	return writeJSON(w, paramsOutput{Params: resp, Stac: stac})
}
