package cli

import (
	"fmt"
	"strconv"

	"inventory-api/internal/client"
	"inventory-api/internal/domain"

	"github.com/spf13/cobra"
)

// NewProductsCommand creates the products command group.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List, create, restock and delete products",
	}

	cmd.AddCommand(newProductsListCommand(rootOpts))
	cmd.AddCommand(newProductsCreateCommand(rootOpts))
	cmd.AddCommand(newProductsSetStockCommand(rootOpts))
	cmd.AddCommand(newProductsDeleteCommand(rootOpts))

	return cmd
}

func newProductsListCommand(opts *RootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			products, err := opts.store().Products(cmd.Context(), search)
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(products, []string{"ID", "NAME", "PRICE", "RATING", "STOCK"}, productRows(products))
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive name filter")

	return cmd
}

func newProductsCreateCommand(opts *RootOptions) *cobra.Command {
	var input client.NewProduct
	var rating float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product with a caller-chosen id",
		Example: `  invctl products create --id p1 --name Widget --price 9.99 --stock 5
  invctl products create --id p2 --name Gadget --price 4 --stock 0 --rating 4.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("rating") {
				input.Rating = &rating
			}

			out := opts.formatter(cmd)
			product, err := opts.store().CreateProduct(cmd.Context(), input)
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(product, []string{"ID", "NAME", "PRICE", "RATING", "STOCK"}, productRows([]domain.Product{*product}))
		},
	}

	cmd.Flags().StringVar(&input.ProductID, "id", "", "product id")
	cmd.Flags().StringVar(&input.Name, "name", "", "product name")
	cmd.Flags().Float64Var(&input.Price, "price", 0, "unit price")
	cmd.Flags().Float64Var(&rating, "rating", 0, "rating between 0 and 5")
	cmd.Flags().IntVar(&input.StockQuantity, "stock", 0, "units in stock")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductsSetStockCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-stock <product-id> <quantity>",
		Short: "Overwrite a product's stock quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)

			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return out.Fail(WrapExitError(ExitCommandError, "invalid quantity", err))
			}

			product, err := opts.store().UpdateStockQuantity(cmd.Context(), args[0], quantity)
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(product, []string{"ID", "NAME", "PRICE", "RATING", "STOCK"}, productRows([]domain.Product{*product}))
		},
	}
}

func newProductsDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Delete a product together with its sales and purchases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			if err := opts.store().DeleteProduct(cmd.Context(), args[0]); err != nil {
				return out.Fail(err)
			}
			return out.Message(fmt.Sprintf("Product %s deleted", args[0]))
		},
	}
}

func productRows(products []domain.Product) [][]string {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rating := "-"
		if p.Rating != nil {
			rating = strconv.FormatFloat(*p.Rating, 'f', 1, 64)
		}
		rows = append(rows, []string{
			p.ProductID,
			p.Name,
			formatMoney(p.Price),
			rating,
			strconv.Itoa(p.StockQuantity),
		})
	}
	return rows
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
