// cmd/shopctl/commands.go
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/easyretail/shop-backend/internal/coerce"
	"github.com/easyretail/shop-backend/internal/posstore"
)

func newListCommand(o *options) *cobra.Command {
	var category, search string
	var pos, low, out bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			var products []posstore.Product
			switch {
			case low:
				products = o.store.LowStock()
			case out:
				products = o.store.OutOfStock()
			case pos:
				products = o.store.POSProducts()
			case search != "":
				products = o.store.Search(search)
			default:
				products = o.store.ByCategory(category)
			}
			return printJSON(cmd, products)
		},
	}
	cmd.Flags().StringVar(&category, "category", "all", "only this category")
	cmd.Flags().StringVar(&search, "search", "", "match name, id, sku or category")
	cmd.Flags().BoolVar(&pos, "pos", false, "only products shown at the till")
	cmd.Flags().BoolVar(&low, "low-stock", false, "only low-stock products")
	cmd.Flags().BoolVar(&out, "out-of-stock", false, "only out-of-stock products")
	return cmd
}

// productFlags binds the editable fields; only flags the user set are sent.
func productFlags(cmd *cobra.Command) func() posstore.Input {
	f := cmd.Flags()
	name := f.String("name", "", "product name")
	category := f.String("category", "", "category")
	price := f.String("price", "", "unit price")
	stock := f.String("stock", "", "units in stock")
	description := f.String("description", "", "description")
	sku := f.String("sku", "", "stock keeping unit")
	image := f.String("image", "", "image or emoji")

	return func() posstore.Input {
		var in posstore.Input
		set := func(flag string) bool { return f.Changed(flag) }
		if set("name") {
			in.Name = name
		}
		if set("category") {
			in.Category = category
		}
		if set("price") {
			in.Price = coerce.NumberOf(*price)
		}
		if set("stock") {
			in.Stock = coerce.NumberOf(*stock)
		}
		if set("description") {
			in.Description = description
		}
		if set("sku") {
			in.SKU = sku
		}
		if set("image") {
			in.Image = image
		}
		return in
	}
}

func newAddCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
	}
	input := productFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := o.store.Add(cmd.Context(), input())
		if err != nil {
			return err
		}
		return printJSON(cmd, p)
	}
	return cmd
}

func newUpdateCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a product",
		Args:  cobra.ExactArgs(1),
	}
	input := productFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		p, err := o.store.Update(cmd.Context(), args[0], input())
		if err != nil {
			return err
		}
		return printJSON(cmd, p)
	}
	return cmd
}

func newDeleteCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.store.Delete(cmd.Context(), args[0])
		},
	}
}

func newToggleCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Show or hide a product at the till",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := o.store.ToggleActive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func newSaleCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sale ID QTY [ID QTY...]",
		Short: "Record a checkout",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return fmt.Errorf("expected pairs of product id and quantity")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			items := make([]posstore.SaleItem, 0, len(args)/2)
			for i := 0; i < len(args); i += 2 {
				qty, err := strconv.Atoi(args[i+1])
				if err != nil {
					return fmt.Errorf("quantity %q: %w", args[i+1], err)
				}
				items = append(items, posstore.SaleItem{ID: args[i], Quantity: qty})
			}
			updated, err := o.store.RecordSale(cmd.Context(), items)
			if err != nil {
				return err
			}
			return printJSON(cmd, updated)
		},
	}
}

func newImportCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Append products from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var inputs []posstore.Input
			if err := json.Unmarshal(data, &inputs); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			imported, err := o.store.Import(cmd.Context(), inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d products imported\n", len(imported))
			return nil
		},
	}
}

func newExportCommand(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalogue as a JSON array",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := o.store.Export()
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if out == "" {
				out = name
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, - for stdout (default products-export-<date>.json)")
	return cmd
}

func newResetDemoCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-demo",
		Short: "Replace the catalogue with demo products",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := o.store.ResetDemo(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, products)
		},
	}
}

func newStatsCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalogue totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, o.store.Stats())
		},
	}
}

func newClearCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every product",
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.store.Clear(cmd.Context())
		},
	}
}
