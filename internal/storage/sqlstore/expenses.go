package sqlstore

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/maticai/matic/internal/models"
)

var (
	expenseColumns = []string{
		"id", "user_id", "store", "date", "total", "payment_method",
		"receipt_path", "confidence", "created_at",
	}
	expenseItemColumns = []string{
		"id", "expense_id", "product_name", "quantity", "unit_price", "total_price",
	}
)

// AddExpense writes the header and its items in one transaction.
func (s *Store) AddExpense(e models.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := s.sb.Insert("expenses").
		Columns(expenseColumns...).
		Values(e.ID, e.UserID, e.Store, e.Date, e.Total, e.PaymentMethod,
			e.ReceiptPath, e.Confidence, utc(e.CreatedAt)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to add expense: %w", err)
	}

	if len(e.Items) > 0 {
		ins := s.sb.Insert("expense_items").Columns(expenseItemColumns...)
		for _, it := range e.Items {
			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			ins = ins.Values(it.ID, e.ID, it.ProductName, it.Quantity, it.UnitPrice, it.TotalPrice)
		}
		query, args, err := ins.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("failed to add expense items: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetExpense(id string) (models.Expense, error) {
	query, args, err := s.sb.Select(expenseColumns...).From("expenses").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Expense{}, err
	}
	var e models.Expense
	if err := s.db.Get(&e, query, args...); err != nil {
		return models.Expense{}, notFound(err, "expense", id)
	}
	expenses := []models.Expense{e}
	if err := s.attachItems(s.db, expenses); err != nil {
		return models.Expense{}, err
	}
	return expenses[0], nil
}

// GetExpenses returns expenses dated startDate..endDate inclusive, newest first.
func (s *Store) GetExpenses(startDate, endDate string) ([]models.Expense, error) {
	query, args, err := s.sb.Select(expenseColumns...).From("expenses").
		Where(squirrel.GtOrEq{"date": startDate}).
		Where(squirrel.LtOrEq{"date": endDate}).
		OrderBy("date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var expenses []models.Expense
	if err := s.db.Select(&expenses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	if err := s.attachItems(s.db, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) attachItems(q sqlx.Queryer, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	ids := make([]string, len(expenses))
	index := make(map[string]int, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
		index[e.ID] = i
	}
	query, args, err := s.sb.Select(expenseItemColumns...).From("expense_items").
		Where(squirrel.Eq{"expense_id": ids}).
		OrderBy("expense_id", "id").
		ToSql()
	if err != nil {
		return err
	}
	var items []models.ExpenseItem
	if err := sqlx.Select(q, &items, query, args...); err != nil {
		return fmt.Errorf("failed to read expense items: %w", err)
	}
	for _, it := range items {
		i := index[it.ExpenseID]
		expenses[i].Items = append(expenses[i].Items, it)
	}
	return nil
}

// DeleteExpense removes the expense and its items.
func (s *Store) DeleteExpense(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := s.sb.Delete("expense_items").Where(squirrel.Eq{"expense_id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	query, args, err = s.sb.Delete("expenses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := tx.Exec(query, args...)
	if err != nil {
		return err
	}
	if err := requireAffected(res, "expense", id); err != nil {
		return err
	}
	return tx.Commit()
}
