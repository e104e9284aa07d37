package expenses

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/tui"
)

type ExpenseCmd struct {
	Add    ExpenseAddCmd    `cmd:"" help:"Record an expense by hand."`
	Scan   ExpenseScanCmd   `cmd:"" help:"Read an expense from a receipt photo."`
	List   ExpenseListCmd   `cmd:"" help:"List expenses in a date range."`
	Show   ExpenseShowCmd   `cmd:"" help:"Show an expense with its items."`
	Delete ExpenseDeleteCmd `cmd:"" help:"Delete an expense and its items."`
}

type ExpenseAddCmd struct {
	Store   string   `arg:"" help:"Store or merchant name."`
	Total   string   `help:"Total amount; defaults to the sum of the items."`
	Date    string   `help:"Purchase date in YYYY-MM-DD format (default: today)."`
	Payment string   `help:"Payment method."`
	Item    []string `help:"Line item as NAME=PRICE or NAME=QTY@UNIT_PRICE; repeatable."`
}

// ParseItem reads NAME=PRICE or NAME=QTY@UNIT_PRICE.
func ParseItem(s string) (models.ExpenseItem, error) {
	name, price, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return models.ExpenseItem{}, fmt.Errorf("invalid item %q (expected NAME=PRICE)", s)
	}
	item := models.ExpenseItem{ID: uuid.New().String(), ProductName: name, Quantity: "1"}

	qty, unit, hasQty := strings.Cut(price, "@")
	if !hasQty {
		total, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return item, fmt.Errorf("invalid price in %q: %w", s, err)
		}
		item.UnitPrice, item.TotalPrice = total, total
		return item, nil
	}

	q, err := decimal.NewFromString(strings.TrimSpace(qty))
	if err != nil {
		return item, fmt.Errorf("invalid quantity in %q: %w", s, err)
	}
	u, err := decimal.NewFromString(strings.TrimSpace(unit))
	if err != nil {
		return item, fmt.Errorf("invalid unit price in %q: %w", s, err)
	}
	item.Quantity = q.String()
	item.UnitPrice = u
	item.TotalPrice = q.Mul(u).Round(2)
	return item, nil
}

func (c *ExpenseAddCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	exp := models.Expense{
		ID:            uuid.New().String(),
		Store:         strings.TrimSpace(c.Store),
		Date:          day.Format(constants.DateFormat),
		PaymentMethod: c.Payment,
		Confidence:    1,
		CreatedAt:     ctx.Clock(),
	}
	for _, raw := range c.Item {
		item, err := ParseItem(raw)
		if err != nil {
			return err
		}
		item.ExpenseID = exp.ID
		exp.Items = append(exp.Items, item)
	}
	if c.Total != "" {
		exp.Total, err = decimal.NewFromString(c.Total)
		if err != nil {
			return fmt.Errorf("invalid total %q: %w", c.Total, err)
		}
	} else {
		exp.Total = exp.ItemsTotal()
	}

	if err := ctx.Store.AddExpense(exp); err != nil {
		return ctx.Report(err, "failed to save expense")
	}
	ctx.Printf("Added expense: %s %s on %s [%s]\n", exp.Store, exp.Total.StringFixed(2), exp.Date, exp.ID)
	return nil
}

type ExpenseScanCmd struct {
	Photo string `arg:"" help:"Receipt photo." type:"existingfile"`
	Yes   bool   `short:"y" help:"Save without asking."`
}

func (c *ExpenseScanCmd) Run(ctx *cli.Context) error {
	client, err := ctx.RequireAI()
	if err != nil {
		return err
	}
	image, err := cli.ReadImage(c.Photo)
	if err != nil {
		return err
	}
	analysis, err := client.AnalyzeReceipt(context.Background(), image)
	if err != nil {
		return ctx.Report(err, "receipt analysis failed")
	}

	today, err := ctx.Tracker.Day("")
	if err != nil {
		return err
	}
	exp := analysis.Expense("", today.Format(constants.DateFormat))
	exp.ID = uuid.New().String()
	exp.ReceiptPath = c.Photo
	exp.CreatedAt = ctx.Clock()
	if exp.Store == "" {
		exp.Store = "Unknown store"
	}

	printExpense(ctx, exp)
	if !c.Yes {
		ok, err := tui.Confirm("Save this expense?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Printf("Expense discarded.\n")
			return nil
		}
	}
	if err := ctx.Store.AddExpense(exp); err != nil {
		return ctx.Report(err, "failed to save expense")
	}
	ctx.Printf("Saved expense [%s]\n", exp.ID)
	return nil
}

type ExpenseListCmd struct {
	From string `help:"First date (YYYY-MM-DD); default 30 days before --to."`
	To   string `help:"Last date (YYYY-MM-DD); default today."`
}

func (c *ExpenseListCmd) Run(ctx *cli.Context) error {
	to, err := ctx.Tracker.Day(c.To)
	if err != nil {
		return err
	}
	from := to.AddDate(0, 0, -30)
	if c.From != "" {
		if from, err = ctx.Tracker.Day(c.From); err != nil {
			return err
		}
	}
	start, end := from.Format(constants.DateFormat), to.Format(constants.DateFormat)

	expenses, err := ctx.Store.GetExpenses(start, end)
	if err != nil {
		return ctx.Report(err, "failed to list expenses")
	}
	if len(expenses) == 0 {
		ctx.Printf("No expenses between %s and %s.\n", start, end)
		return nil
	}

	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Total)
		ctx.Printf("%s  %-24s %10s  (%d items)  [%s]\n", e.Date, e.Store, e.Total.StringFixed(2), len(e.Items), e.ID)
	}
	ctx.Printf("\nTotal %s to %s: %s\n", start, end, sum.StringFixed(2))
	return nil
}

type ExpenseShowCmd struct {
	ID string `arg:"" help:"Expense ID."`
}

func (c *ExpenseShowCmd) Run(ctx *cli.Context) error {
	exp, err := ctx.Store.GetExpense(c.ID)
	if err != nil {
		return ctx.Report(err, "failed to load expense")
	}
	printExpense(ctx, exp)
	return nil
}

type ExpenseDeleteCmd struct {
	ID string `arg:"" help:"Expense ID."`
}

func (c *ExpenseDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteExpense(c.ID); err != nil {
		return ctx.Report(err, "failed to delete expense")
	}
	ctx.Printf("Deleted expense %s\n", c.ID)
	return nil
}

func printExpense(ctx *cli.Context, exp models.Expense) {
	ctx.Printf("%s  %s  %s", exp.Date, exp.Store, exp.Total.StringFixed(2))
	if exp.PaymentMethod != "" {
		ctx.Printf("  (%s)", exp.PaymentMethod)
	}
	ctx.Printf("\n")
	for _, it := range exp.Items {
		ctx.Printf("  %-30s %6s × %8s = %8s\n", it.ProductName, it.Quantity, it.UnitPrice.StringFixed(2), it.TotalPrice.StringFixed(2))
	}
	if len(exp.Items) > 0 && !exp.ItemsTotal().Equal(exp.Total) {
		ctx.Printf("  items sum to %s\n", exp.ItemsTotal().StringFixed(2))
	}
	if exp.Confidence < 1 {
		ctx.Printf("  confidence %.0f%%\n", exp.Confidence*100)
	}
}
