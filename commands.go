package main

import (
	"math"

	"github.com/spf13/cobra"

	"subito-tracker/models"
	"subito-tracker/services"
	"subito-tracker/storage"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "subito-tracker",
		Short: "Item tracker for the subito.it website",
		Long: "Item tracker for the subito.it website.\n" +
			"Run without a command to update every stored query.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			return a.finish(ctx, a.db.UpdateAll(ctx))
		},
	}

	root.AddCommand(newAddCmd(), newRemoveCmd(), newListCmd(), newExportCmd())
	return root
}

func newAddCmd() *cobra.Command {
	var minPrice, maxPrice int

	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a query to the database and fetch its listings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := models.NewQuery(args[0], args[1], minPrice, maxPrice)
			if err := q.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			_, err = a.db.Add(ctx, q)
			return a.finish(ctx, err)
		},
	}

	cmd.Flags().IntVar(&minPrice, "min-price", -1, "minimum price for listings of this query")
	cmd.Flags().IntVar(&maxPrice, "max-price", math.MaxInt, "maximum price for listings of this query")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a query from the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			a.db.Remove(args[0])
			return a.finish(ctx, nil)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all queries and their visible listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			for _, q := range a.db.Queries() {
				a.console.PrintReport(services.BuildReport(q))
			}
			return a.finish(ctx, nil)
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write the visible listings of every query to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			return a.finish(ctx, exportCSV(args[0], a.db.Queries()))
		},
	}
}

func exportCSV(path string, queries []*models.Query) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	return exportListings(w, queries)
}

// exportListings writes every query through w and always closes it.
func exportListings(w storage.ListingExporter, queries []*models.Query) error {
	for _, q := range queries {
		if err := w.WriteQuery(q); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}
