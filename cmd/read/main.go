// Command read is a small front end over the catalog store: it opens the
// database (running schema migrations), builds the store, and drives it
// exclusively through its event surface.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readkeeper/read/internal/config"
	"github.com/readkeeper/read/internal/database"
	"github.com/readkeeper/read/internal/database/books"
	"github.com/readkeeper/read/internal/entities"
	"github.com/readkeeper/read/internal/logger"
	"github.com/readkeeper/read/internal/state"
)

var (
	flagDB       string
	flagMemory   bool
	flagTestData bool
	flagLogLevel string
)

func main() {
	cfg := config.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "read",
		Short:         "Personal catalog of books, authors, and series",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", cfg.Database.Path, "path to the catalog database")
	rootCmd.PersistentFlags().BoolVar(&flagMemory, "memory", cfg.Database.InMemory, "use a non-durable in-memory store")
	rootCmd.PersistentFlags().BoolVar(&flagTestData, "testdata", cfg.Seed.TestData, "seed the demonstration catalog")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", cfg.Log.Level, "log level")

	rootCmd.AddCommand(listCmd(), addBookCmd(), deleteSeriesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openStore() (*state.Store, func(), error) {
	logger.SetLevel(flagLogLevel)

	db, err := database.Open(flagDB, flagMemory)
	if err != nil {
		return nil, nil, err
	}
	repo := books.NewRepository(db.DB)
	store := state.NewStore(state.Initial(repo, flagTestData), state.NewReducer(repo))
	cleanup := func() { _ = db.Close() }
	return store, cleanup, nil
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "list [books|authors|series]",
		Short:     "Print one of the sorted catalog views",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"books", "authors", "series"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			snapshot := store.State()
			switch args[0] {
			case "books":
				for _, b := range snapshot.Books {
					var names []string
					for _, a := range b.Authors {
						names = append(names, a.DisplayName())
					}
					line := b.Title
					if len(names) > 0 {
						line += " — " + strings.Join(names, ", ")
					}
					if b.Series != nil && b.SeriesOrder != nil {
						line += fmt.Sprintf(" (%s #%d)", b.Series.Name, *b.SeriesOrder)
					}
					fmt.Println(line)
				}
			case "authors":
				for _, a := range snapshot.Authors {
					fmt.Printf("%s, %s (%d books)\n", a.LastName, a.FirstName, len(a.Books))
				}
			case "series":
				for _, s := range snapshot.Series {
					fmt.Printf("%s (%d books)\n", s.Name, len(s.Books))
				}
			}
			return nil
		},
	}
	return cmd
}

func addBookCmd() *cobra.Command {
	var seriesName string
	var seriesOrder int

	cmd := &cobra.Command{
		Use:   "add-book <title>",
		Short: "Add a book, optionally placing it in a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			book := entities.NewBook(args[0])
			snapshot := store.Dispatch(state.AddBook{Book: book})
			if snapshot.LastError == "" && seriesName != "" {
				snapshot = store.Dispatch(state.UpdateOrAddBook{
					Book:        book,
					Title:       book.Title,
					Authors:     book.Authors,
					SeriesName:  seriesName,
					SeriesOrder: seriesOrder,
				})
			}
			if snapshot.LastError != "" {
				return fmt.Errorf("%s", snapshot.LastError)
			}
			fmt.Printf("Added %q (%d books total)\n", book.Title, len(snapshot.Books))
			return nil
		},
	}
	cmd.Flags().StringVar(&seriesName, "series", "", "series the book belongs to")
	cmd.Flags().IntVar(&seriesOrder, "order", 1, "position within the series")
	return cmd
}

func deleteSeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-series <name>",
		Short: "Delete a series, detaching its books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			for _, s := range store.State().Series {
				if s.Name == args[0] {
					series := s
					snapshot := store.Dispatch(state.DeleteSeries{Series: &series})
					if snapshot.LastError != "" {
						return fmt.Errorf("%s", snapshot.LastError)
					}
					fmt.Printf("Deleted series %q\n", args[0])
					return nil
				}
			}
			return fmt.Errorf("no series named %q", args[0])
		},
	}
}
