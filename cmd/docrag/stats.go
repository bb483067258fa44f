package main

import (
	"fmt"

	"github.com/dkowalski/docrag"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	info, err := deps.Store.CollectionInfo(deps.Ctx, c.Collection)
	if err != nil {
		if docrag.ErrorCode(err) == docrag.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: collection %q not found. Use 'docrag ingest' to create one.\n", c.Collection)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", docrag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Collection: %s\n", info.Name)
	fmt.Fprintf(deps.Stdout, "Points:     %d\n", info.PointCount)
	fmt.Fprintf(deps.Stdout, "Vectors:    %d\n", info.VectorCount)
	fmt.Fprintf(deps.Stdout, "Dimension:  %d\n", info.Dimension)
	fmt.Fprintf(deps.Stdout, "Metric:     %s\n", info.Metric)
	return nil
}
