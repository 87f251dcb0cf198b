package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/hydrovibe/hydrosearch/internal/domain/catalog"
	catalogrepo "github.com/hydrovibe/hydrosearch/internal/repository/catalog"
	"github.com/hydrovibe/hydrosearch/internal/transport/api"
)

// CollectionsAction lists the catalog. It needs no LLM configuration.
func CollectionsAction(_ context.Context, cmd *cli.Command) error {
	if err := loadDotEnv(cmd.String("dotenv")); err != nil {
		return err
	}

	cat, err := catalogrepo.New(cmd.String("catalog")).Load()
	if err != nil {
		return err
	}

	return writeCollections(output(cmd), cat, cmd.Bool("json"))
}

func writeCollections(w io.Writer, cat catalog.Catalog, asJSON bool) error {
	if asJSON {
		return writeJSON(w, api.NewCollectionListResponse(cat))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE")
	for _, c := range cat.Collections() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Title)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
