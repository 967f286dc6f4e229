package cli

import (
	"fmt"
	"strconv"
	"time"

	"inventory-api/internal/client"
	"inventory-api/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// recordFlags are shared by sales create and purchases create
type recordFlags struct {
	id        string
	productID string
	timestamp string
	quantity  int
	unit      float64
	total     float64
	location  string
}

func (f *recordFlags) register(cmd *cobra.Command, unitName, totalName string) {
	cmd.Flags().StringVar(&f.id, "id", "", "record id (generated by the server when empty)")
	cmd.Flags().StringVar(&f.productID, "product", "", "product id")
	cmd.Flags().StringVar(&f.timestamp, "timestamp", "", "ISO-8601 time (defaults to now on the server)")
	cmd.Flags().IntVar(&f.quantity, "quantity", 0, "units")
	cmd.Flags().Float64Var(&f.unit, unitName, 0, "price per unit")
	cmd.Flags().Float64Var(&f.total, totalName, 0, "total (defaults to quantity * unit)")
	cmd.Flags().StringVar(&f.location, "location", "", "where the record happened")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("location")
}

// resolve parses the timestamp and fills the total the way the web client does
// when the caller did not pass one.
func (f *recordFlags) resolve(cmd *cobra.Command, totalName string) (*time.Time, float64, error) {
	var ts *time.Time
	if f.timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, f.timestamp)
		if err != nil {
			return nil, 0, WrapExitError(ExitCommandError, "invalid --timestamp", err)
		}
		ts = &parsed
	}

	total := f.total
	if !cmd.Flags().Changed(totalName) {
		total = computeTotal(f.quantity, f.unit)
	}
	return ts, total, nil
}

func computeTotal(quantity int, unit float64) float64 {
	total, _ := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(unit)).Round(2).Float64()
	return total
}

// NewSalesCommand creates the sales command group.
func NewSalesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "List and record sales",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List sales, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			sales, err := rootOpts.store().Sales(cmd.Context())
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(sales, recordHeader("UNIT PRICE", "TOTAL"), saleRows(sales))
		},
	})

	var flags recordFlags
	create := &cobra.Command{
		Use:     "create",
		Short:   "Record a sale",
		Example: `  invctl sales create --product p1 --quantity 2 --unit-price 9.99 --location store-1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			ts, total, err := flags.resolve(cmd, "total")
			if err != nil {
				return out.Fail(err)
			}

			sale, err := rootOpts.store().CreateSale(cmd.Context(), client.NewSale{
				SaleID:      flags.id,
				ProductID:   flags.productID,
				Timestamp:   ts,
				Quantity:    flags.quantity,
				UnitPrice:   flags.unit,
				TotalAmount: total,
				Location:    flags.location,
			})
			if err != nil {
				return out.Fail(err)
			}
			out.VerboseLog("created sale %s", sale.SaleID)
			return out.Table(sale, recordHeader("UNIT PRICE", "TOTAL"), saleRows([]domain.Sale{*sale}))
		},
	}
	flags.register(create, "unit-price", "total")
	cmd.AddCommand(create)

	return cmd
}

// NewPurchasesCommand creates the purchases command group.
func NewPurchasesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchases",
		Short: "List and record purchases",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List purchases, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			purchases, err := rootOpts.store().Purchases(cmd.Context())
			if err != nil {
				return out.Fail(err)
			}
			return out.Table(purchases, recordHeader("UNIT COST", "TOTAL"), purchaseRows(purchases))
		},
	})

	var flags recordFlags
	create := &cobra.Command{
		Use:     "create",
		Short:   "Record a purchase",
		Example: `  invctl purchases create --product p1 --quantity 10 --unit-cost 4 --location dock`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := rootOpts.formatter(cmd)
			ts, total, err := flags.resolve(cmd, "total")
			if err != nil {
				return out.Fail(err)
			}

			purchase, err := rootOpts.store().CreatePurchase(cmd.Context(), client.NewPurchase{
				PurchaseID: flags.id,
				ProductID:  flags.productID,
				Timestamp:  ts,
				Quantity:   flags.quantity,
				UnitCost:   flags.unit,
				TotalCost:  total,
				Location:   flags.location,
			})
			if err != nil {
				return out.Fail(err)
			}
			out.VerboseLog("created purchase %s", purchase.PurchaseID)
			return out.Table(purchase, recordHeader("UNIT COST", "TOTAL"), purchaseRows([]domain.Purchase{*purchase}))
		},
	}
	flags.register(create, "unit-cost", "total")
	cmd.AddCommand(create)

	return cmd
}

func recordHeader(unit, total string) []string {
	return []string{"ID", "TIME", "PRODUCT", "QTY", unit, total, "LOCATION"}
}

func saleRows(sales []domain.Sale) [][]string {
	rows := make([][]string, 0, len(sales))
	for i := range sales {
		s := &sales[i]
		rows = append(rows, []string{
			s.SaleID,
			s.Timestamp.UTC().Format(time.RFC3339),
			productLabel(s.ProductID, s.ProductName()),
			strconv.Itoa(s.Quantity),
			formatMoney(s.UnitPrice),
			formatMoney(s.TotalAmount),
			s.Location,
		})
	}
	return rows
}

func purchaseRows(purchases []domain.Purchase) [][]string {
	rows := make([][]string, 0, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		rows = append(rows, []string{
			p.PurchaseID,
			p.Timestamp.UTC().Format(time.RFC3339),
			productLabel(p.ProductID, p.ProductName()),
			strconv.Itoa(p.Quantity),
			formatMoney(p.UnitCost),
			formatMoney(p.TotalCost),
			p.Location,
		})
	}
	return rows
}

func productLabel(id, name string) string {
	return fmt.Sprintf("%s (%s)", name, id)
}
