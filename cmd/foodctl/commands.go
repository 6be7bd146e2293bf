package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"food_explorer/internal/client"
	"food_explorer/internal/domain"
)

// newRootCommand builds the command tree. Results are written to out as indented JSON.
func newRootCommand(out io.Writer) *cobra.Command {
	var baseURL string
	cl := func() *client.Client { return client.New(baseURL) }

	root := &cobra.Command{
		Use:          "foodctl",
		Short:        "Browse and manage restaurant reviews",
		SilenceUsage: true,
	}
	def := os.Getenv("FOOD_API_URL")
	if def == "" {
		def = "http://localhost:8080"
	}
	root.PersistentFlags().StringVar(&baseURL, "api", def, "API base URL")

	var f domain.Filter
	var minRating float64
	list := &cobra.Command{
		Use:   "list",
		Short: "List restaurants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if minRating > 0 {
				f.MinRating = &minRating
			}
			return printJSON(out, cl().GetRestaurants(cmd.Context(), f))
		},
	}
	list.Flags().BoolVar(&f.FeaturedOnly, "featured", false, "only featured restaurants")
	list.Flags().StringVar(&f.Area, "area", "", "exact area")
	list.Flags().StringVar(&f.Cuisine, "cuisine", "", "cuisine the restaurant serves")
	list.Flags().StringVar(&f.Search, "search", "", "text to look for in name or description")
	list.Flags().Float64Var(&minRating, "min-rating", 0, "lowest rating to include")
	list.Flags().StringVar((*string)(&f.PriceRange), "price", "", "budget|moderate|premium|luxury")

	featured := &cobra.Command{
		Use:   "featured",
		Short: "List featured restaurants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(out, cl().GetFeatured(cmd.Context()))
		},
	}

	var limit int
	best := &cobra.Command{
		Use:   "best",
		Short: "Show the highest rated restaurants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(out, cl().GetBestPlaces(cmd.Context(), limit))
		},
	}
	best.Flags().IntVarP(&limit, "limit", "n", client.DefaultBestLimit, "how many to show")

	get := &cobra.Command{
		Use:   "get <slug>",
		Short: "Show one restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := cl().GetBySlug(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("restaurant %q not found", args[0])
			}
			return printJSON(out, r)
		},
	}

	var file string
	create := &cobra.Command{
		Use:   "create -f <file.json>",
		Short: "Create a restaurant from a JSON document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in domain.CreateInput
			b, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			if err := json.Unmarshal(b, &in); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}
			res := cl().CreateRestaurant(cmd.Context(), in)
			if err := printJSON(out, res); err != nil {
				return err
			}
			return failure(res.Success, res.Error)
		},
	}
	create.Flags().StringVarP(&file, "file", "f", "-", "JSON file, - for stdin")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a restaurant by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := cl().DeleteRestaurant(cmd.Context(), args[0])
			if err := printJSON(out, res); err != nil {
				return err
			}
			return failure(res.Success, res.Error)
		},
	}

	root.AddCommand(list, featured, best, get, create, del)
	return root
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(file)
}

func failure(ok bool, msg string) error {
	if ok {
		return nil
	}
	if msg == "" {
		msg = "request failed"
	}
	return errors.New(msg)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
