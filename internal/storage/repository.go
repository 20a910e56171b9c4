// Package storage implements the budget Store on SQLite. The schema is
// installed by embedded migrations; running totals live in the
// category_limits and daily_limits tables and are moved by cent deltas
// inside transactions.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/core"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db           *sql.DB
	loc          *time.Location
	defaultDaily core.Money
}

var _ budget.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string, loc *time.Location, defaultCategory, defaultDaily core.Money) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if err := seedCategoryLimits(db, defaultCategory); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed category limits: %w", err)
	}

	return &SQLiteRepository{
		db:           db,
		loc:          loc,
		defaultDaily: defaultDaily,
	}, nil
}

// seedCategoryLimits inserts the fixed category rows with the configured
// default ceiling. Existing rows keep whatever ceiling the user set.
func seedCategoryLimits(db *sql.DB, defaultCategory core.Money) error {
	for _, c := range core.Categories() {
		_, err := db.Exec(
			`INSERT INTO category_limits (category, limit_cents, current_cents) VALUES (?, ?, 0)
			 ON CONFLICT(category) DO NOTHING`,
			string(c), defaultCategory.Cents)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const expenseColumns = "id, title, amount_cents, category, date, notes, source"

func (r *SQLiteRepository) InsertExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, title, amount_cents, category, date, day, notes, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Amount.Cents, string(e.Category),
		e.Date.Format(time.RFC3339Nano), core.DayIn(e.Date, r.loc).String(),
		e.Notes, string(e.Source))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"title", e.Title,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Expense, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, false, nil
	}
	if err != nil {
		return core.Expense{}, false, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, true, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE expenses
		 SET title = ?, amount_cents = ?, category = ?, date = ?, day = ?, notes = ?, source = ?
		 WHERE id = ?`,
		e.Title, e.Amount.Cents, string(e.Category),
		e.Date.Format(time.RFC3339Nano), core.DayIn(e.Date, r.loc).String(),
		e.Notes, string(e.Source), e.ID)
	if err != nil {
		return fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses ORDER BY date, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (r *SQLiteRepository) ExpensesBetween(ctx context.Context, from, to core.Day) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE day >= ? AND day <= ? ORDER BY date, created_at`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("expenses between %s and %s: %w", from, to, err)
	}
	defer rows.Close()
	return collectExpenses(rows)
}

func (r *SQLiteRepository) CategoryLimits(ctx context.Context) ([]core.CategoryLimit, error) {
	out := make([]core.CategoryLimit, 0, 6)
	// Iterate in declared order rather than trusting table order.
	for _, c := range core.Categories() {
		var limitCents, currentCents int64
		err := r.db.QueryRowContext(ctx,
			`SELECT limit_cents, current_cents FROM category_limits WHERE category = ?`,
			string(c)).Scan(&limitCents, &currentCents)
		if err != nil {
			return nil, fmt.Errorf("load category limit %s: %w", c, err)
		}
		out = append(out, core.CategoryLimit{
			Category: c,
			Limit:    core.Money{Cents: limitCents},
			Current:  core.Money{Cents: currentCents},
		})
	}
	return out, nil
}

func (r *SQLiteRepository) DailyLimit(ctx context.Context, day core.Day) (core.DailyLimit, error) {
	// Create the row with the default ceiling before first read.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_limits (day, limit_cents, current_cents) VALUES (?, ?, 0)
		 ON CONFLICT(day) DO NOTHING`,
		day.String(), r.defaultDaily.Cents)
	if err != nil {
		return core.DailyLimit{}, fmt.Errorf("ensure daily limit row %s: %w", day, err)
	}

	var limitCents, currentCents int64
	err = r.db.QueryRowContext(ctx,
		`SELECT limit_cents, current_cents FROM daily_limits WHERE day = ?`,
		day.String()).Scan(&limitCents, &currentCents)
	if err != nil {
		return core.DailyLimit{}, fmt.Errorf("load daily limit %s: %w", day, err)
	}
	return core.DailyLimit{
		Day:     day,
		Limit:   core.Money{Cents: limitCents},
		Current: core.Money{Cents: currentCents},
	}, nil
}

func (r *SQLiteRepository) SetCategoryCeiling(ctx context.Context, c core.Category, limit core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE category_limits SET limit_cents = ? WHERE category = ?`,
		limit.Cents, string(c))
	if err != nil {
		return fmt.Errorf("set category ceiling %s: %w", c, err)
	}
	return nil
}

func (r *SQLiteRepository) SetDailyCeiling(ctx context.Context, day core.Day, limit core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_limits (day, limit_cents, current_cents) VALUES (?, ?, 0)
		 ON CONFLICT(day) DO UPDATE SET limit_cents = excluded.limit_cents`,
		day.String(), limit.Cents)
	if err != nil {
		return fmt.Errorf("set daily ceiling %s: %w", day, err)
	}
	return nil
}

func (r *SQLiteRepository) AdjustCurrents(ctx context.Context, adj ledger.Adjustment, day core.Day) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin adjust tx: %w", err)
	}
	defer tx.Rollback()

	if err := r.adjustTx(ctx, tx, adj, day); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit adjust tx: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ApplyImport(ctx context.Context, batch []core.Expense, adj ledger.Adjustment, day core.Day) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range batch {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, title, amount_cents, category, date, day, notes, source)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Amount.Cents, string(e.Category),
			e.Date.Format(time.RFC3339Nano), core.DayIn(e.Date, r.loc).String(),
			e.Notes, string(e.Source))
		if err != nil {
			return fmt.Errorf("insert imported expense %s: %w", e.ID, err)
		}
	}
	if err := r.adjustTx(ctx, tx, adj, day); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}

	slog.InfoContext(ctx, "Import batch applied", "accepted", len(batch), "day", day.String())
	return nil
}

func (r *SQLiteRepository) RecomputeCurrents(ctx context.Context, today core.Day) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recompute tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO daily_limits (day, limit_cents, current_cents) VALUES (?, ?, 0)
		 ON CONFLICT(day) DO NOTHING`,
		today.String(), r.defaultDaily.Cents)
	if err != nil {
		return fmt.Errorf("ensure today's daily row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE category_limits SET current_cents = COALESCE(
			(SELECT SUM(amount_cents) FROM expenses WHERE expenses.category = category_limits.category), 0)`)
	if err != nil {
		return fmt.Errorf("recompute category currents: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE daily_limits SET current_cents = COALESCE(
			(SELECT SUM(amount_cents) FROM expenses WHERE expenses.day = daily_limits.day), 0)`)
	if err != nil {
		return fmt.Errorf("recompute daily currents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recompute tx: %w", err)
	}

	slog.InfoContext(ctx, "Running totals recomputed", "today", today.String())
	return nil
}

func (r *SQLiteRepository) adjustTx(ctx context.Context, tx *sql.Tx, adj ledger.Adjustment, day core.Day) error {
	for c, cents := range adj.ByCategory {
		_, err := tx.ExecContext(ctx,
			`UPDATE category_limits SET current_cents = current_cents + ? WHERE category = ?`,
			cents, string(c))
		if err != nil {
			return fmt.Errorf("adjust category %s: %w", c, err)
		}
	}
	if adj.Daily != 0 {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO daily_limits (day, limit_cents, current_cents) VALUES (?, ?, ?)
			 ON CONFLICT(day) DO UPDATE SET current_cents = current_cents + excluded.current_cents`,
			day.String(), r.defaultDaily.Cents, adj.Daily)
		if err != nil {
			return fmt.Errorf("adjust daily %s: %w", day, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e           core.Expense
		amountCents int64
		category    string
		dateStr     string
		source      string
	)
	if err := row.Scan(&e.ID, &e.Title, &amountCents, &category, &dateStr, &e.Notes, &source); err != nil {
		return core.Expense{}, err
	}
	date, err := time.Parse(time.RFC3339Nano, dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	e.Amount = core.Money{Cents: amountCents}
	e.Category = core.Category(category)
	e.Date = date
	e.Source = core.Source(source)
	return e, nil
}

func collectExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}
