/*
Package sqlite provides a SQLite-backed implementation of commission.Store.

PURPOSE:
  Persists commissions across a parent table and one child table per
  multi-occupant role. The same SQL runs on MySQL/PostgreSQL with minor
  dialect changes (AUTOINCREMENT, LIKE).

KEY TABLES:
  commissions:              One row per commission (inputs, results,
                            denormalized names/rates, breakdown blob)
  commission_srgm_entries:  One row per Sr. GM share
  commission_gm_entries:    One row per GM share
  commission_dgm_entries:   One row per DGM share
  commission_agm_entries:   One row per AGM share

  Child rows reference commissions(id) ON DELETE CASCADE.

MONEY COLUMNS:
  Stored as TEXT holding decimal.Decimal strings, so values read back are
  exactly the values written.

EARNINGS:
  Money is TEXT, so SQL SUM would go through floating point. Earnings
  selects the matching shares and sums them as decimals in Go
  (commission.TallyEarnings).

ATOMIC UPDATE:
  Update runs the parent UPDATE and every child DELETE/INSERT inside one
  transaction. A failure anywhere rolls back all of it: no record ends up
  with new totals and stale shares, or the reverse.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, so an
  in-memory database is shared by every call. Concurrent updates of the
  same commission are last-write-wins.

USAGE:
  store, err := sqlite.New("./data/commissions.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := commission.NewService(store, logger)

MIGRATION:
  Schema is auto-migrated on New(). Columns added after the first release
  are added to existing databases with ALTER TABLE.

SEE ALSO:
  - commission/store.go: Interface definition
  - commission/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/plotdesk/commission-engine/commission"
	"github.com/shopspring/decimal"
)

// Store implements commission.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewWithDB wraps an already opened handle. The schema is assumed to exist.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// =============================================================================
// SCHEMA
// =============================================================================

func entriesTable(r commission.Role) string {
	return "commission_" + string(r) + "_entries"
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	var b strings.Builder
	b.WriteString(`
	CREATE TABLE IF NOT EXISTS commissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reference TEXT NOT NULL UNIQUE,
		plot_no TEXT NOT NULL,
		project_name TEXT NOT NULL DEFAULT '',
		sq_yards TEXT NOT NULL DEFAULT '0',
		original_price TEXT NOT NULL DEFAULT '0',
		negotiated_price TEXT NOT NULL DEFAULT '0',
		advance_received TEXT NOT NULL DEFAULT '0',
		agreement_percentage TEXT NOT NULL DEFAULT '0',
		amount_paid_at_agreement TEXT NOT NULL DEFAULT '0',
		amc_charges TEXT NOT NULL DEFAULT '0',
		mediator_deduction TEXT NOT NULL DEFAULT '0',
		broker_commission TEXT NOT NULL DEFAULT '0',
		total_amount TEXT NOT NULL DEFAULT '0',
		w_value TEXT NOT NULL DEFAULT '0',
		b_value TEXT NOT NULL DEFAULT '0',
		balance_amount TEXT NOT NULL DEFAULT '0',
		actual_agreement_amount TEXT NOT NULL DEFAULT '0',
		agreement_balance TEXT NOT NULL DEFAULT '0',
`)
	for _, r := range commission.AllRoles {
		fmt.Fprintf(&b, "\t\t%[1]s_name TEXT NOT NULL DEFAULT '',\n", r)
		fmt.Fprintf(&b, "\t\t%[1]s_rate TEXT NOT NULL DEFAULT '0',\n", r)
		fmt.Fprintf(&b, "\t\t%[1]s_total TEXT NOT NULL DEFAULT '0',\n", r)
		fmt.Fprintf(&b, "\t\t%[1]s_at_agreement TEXT NOT NULL DEFAULT '0',\n", r)
		fmt.Fprintf(&b, "\t\t%[1]s_at_registration TEXT NOT NULL DEFAULT '0',\n", r)
	}
	b.WriteString(`
		commission_breakdown TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_commissions_plot_project
		ON commissions(plot_no, project_name);
`)

	for _, r := range commission.MultiRoles {
		fmt.Fprintf(&b, `
	CREATE TABLE IF NOT EXISTS %[1]s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		commission_id INTEGER NOT NULL REFERENCES commissions(id) ON DELETE CASCADE,
		name TEXT NOT NULL DEFAULT '',
		total_amount TEXT NOT NULL DEFAULT '0',
		at_agreement TEXT NOT NULL DEFAULT '0',
		at_registration TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_commission
		ON %[1]s(commission_id);
`, entriesTable(r))
	}

	if _, err := s.db.Exec(b.String()); err != nil {
		return err
	}

	// Databases created before updated_by existed.
	return s.ensureColumn("commissions", "updated_by", "TEXT NOT NULL DEFAULT ''")
}

func (s *Store) ensureColumn(table, column, decl string) error {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column).Scan(&n)
	if err != nil || n > 0 {
		return err
	}
	_, err = s.db.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + decl)
	return err
}

// =============================================================================
// COLUMN MAPPING
// =============================================================================

// parentColumns lists every column written by Save and Update, in the order
// produced by parentArgs and consumed by parentDest.
var parentColumns = func() []string {
	cols := []string{
		"plot_no", "project_name", "sq_yards", "original_price", "negotiated_price",
		"advance_received", "agreement_percentage", "amount_paid_at_agreement",
		"amc_charges", "mediator_deduction", "broker_commission",
		"total_amount", "w_value", "b_value", "balance_amount",
		"actual_agreement_amount", "agreement_balance",
	}
	for _, r := range commission.AllRoles {
		p := string(r)
		cols = append(cols, p+"_name", p+"_rate", p+"_total", p+"_at_agreement", p+"_at_registration")
	}
	return append(cols, "commission_breakdown")
}()

func parentArgs(d commission.Draft) []any {
	in := d.Input
	res := d.Result
	args := []any{
		in.PlotNo, in.ProjectName,
		in.SqYards.String(), in.OriginalPrice.String(), in.NegotiatedPrice.String(),
		in.AdvanceReceived.String(), in.AgreementPercentage.String(), in.AmountPaidAtAgreement.String(),
		in.AMCCharges.String(), in.MediatorDeduction.String(), in.BrokerCommission.String(),
		res.TotalAmount.String(), res.WValue.String(), res.BValue.String(), res.BalanceAmount.String(),
		res.ActualAgreementAmount.String(), res.AgreementBalance.String(),
	}

	projections := d.Projections()
	for _, r := range commission.AllRoles {
		p := projections[r]
		rr := res.Roles[r]
		args = append(args,
			p.Names, p.Rate.String(),
			rr.Total.String(), rr.AtAgreement.String(), rr.AtRegistration.String())
	}
	return append(args, d.Breakdown)
}

// recordScan holds scan targets for one parent row.
type recordScan struct {
	rec       commission.Record
	names     map[commission.Role]*string
	rates     map[commission.Role]*decimal.Decimal
	splits    map[commission.Role]*commission.Split
	createdAt string
	updatedAt string
}

func newRecordScan() *recordScan {
	rs := &recordScan{
		names:  make(map[commission.Role]*string),
		rates:  make(map[commission.Role]*decimal.Decimal),
		splits: make(map[commission.Role]*commission.Split),
	}
	for _, r := range commission.AllRoles {
		rs.names[r] = new(string)
		rs.rates[r] = new(decimal.Decimal)
		rs.splits[r] = new(commission.Split)
	}
	return rs
}

// dest returns pointers for id, reference, parentColumns, created_by,
// updated_by, created_at, updated_at.
func (rs *recordScan) dest() []any {
	in := &rs.rec.Input
	res := &rs.rec.Result
	dest := []any{
		&rs.rec.ID, &rs.rec.Reference,
		&in.PlotNo, &in.ProjectName,
		&in.SqYards, &in.OriginalPrice, &in.NegotiatedPrice,
		&in.AdvanceReceived, &in.AgreementPercentage, &in.AmountPaidAtAgreement,
		&in.AMCCharges, &in.MediatorDeduction, &in.BrokerCommission,
		&res.TotalAmount, &res.WValue, &res.BValue, &res.BalanceAmount,
		&res.ActualAgreementAmount, &res.AgreementBalance,
	}
	for _, r := range commission.AllRoles {
		sp := rs.splits[r]
		dest = append(dest, rs.names[r], rs.rates[r], &sp.Total, &sp.AtAgreement, &sp.AtRegistration)
	}
	return append(dest, &rs.rec.Breakdown, &rs.rec.CreatedBy, &rs.rec.UpdatedBy, &rs.createdAt, &rs.updatedAt)
}

func (rs *recordScan) record() *commission.Record {
	rec := rs.rec
	rec.Projections = make(map[commission.Role]commission.Projection, len(commission.AllRoles))
	rec.Result.Roles = make(map[commission.Role]commission.RoleResult, len(commission.AllRoles))
	for _, r := range commission.AllRoles {
		rec.Projections[r] = commission.Projection{Names: *rs.names[r], Rate: *rs.rates[r]}
		rec.Result.Roles[r] = commission.RoleResult{Rate: *rs.rates[r], Split: *rs.splits[r]}
	}
	rec.Input.CGM = commission.RoleEntry{Name: *rs.names[commission.RoleCGM], Rate: *rs.rates[commission.RoleCGM]}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, rs.createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, rs.updatedAt)
	return &rec
}

var (
	selectRecord = "SELECT id, reference, " + strings.Join(parentColumns, ", ") +
		", created_by, updated_by, created_at, updated_at FROM commissions"

	insertRecord = fmt.Sprintf(
		"INSERT INTO commissions (reference, %s, created_by, updated_by, created_at, updated_at) VALUES (?, %s, ?, ?, ?, ?)",
		strings.Join(parentColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(parentColumns)), ", "),
	)

	updateRecord = "UPDATE commissions SET " +
		strings.Join(parentColumns, " = ?, ") + " = ?, updated_by = ?, updated_at = ? WHERE id = ?"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// =============================================================================
// WRITES
// =============================================================================

// Save inserts a commission and its child rows in one transaction.
func (s *Store) Save(ctx context.Context, d commission.Draft) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC().Format(time.RFC3339)
		args := append([]any{uuid.NewString()}, parentArgs(d)...)
		args = append(args, d.Actor, d.Actor, now, now)

		result, err := tx.ExecContext(ctx, insertRecord, args...)
		if err != nil {
			return fmt.Errorf("failed to insert commission: %w", err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read commission id: %w", err)
		}

		return insertEntries(ctx, tx, id, d)
	})
	if err != nil {
		return 0, commission.NewStorageError("save", err)
	}
	return id, nil
}

// Update overwrites commission id and replaces all of its child rows.
func (s *Store) Update(ctx context.Context, id int64, d commission.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		args := append(parentArgs(d), d.Actor, time.Now().UTC().Format(time.RFC3339), id)
		result, err := tx.ExecContext(ctx, updateRecord, args...)
		if err != nil {
			return fmt.Errorf("failed to update commission: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			return commission.ErrNotFound
		}

		for _, r := range commission.MultiRoles {
			query := "DELETE FROM " + entriesTable(r) + " WHERE commission_id = ?"
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("failed to clear %s entries: %w", r, err)
			}
		}

		return insertEntries(ctx, tx, id, d)
	})
	if errors.Is(err, commission.ErrNotFound) {
		return err
	}
	return commission.NewStorageError("update", err)
}

// Delete removes a commission. Child rows go with it via ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM commissions WHERE id = ?", id)
	if err != nil {
		return commission.NewStorageError("delete", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return commission.NewStorageError("delete", err)
	}
	if n == 0 {
		return commission.ErrNotFound
	}
	return nil
}

func insertEntries(ctx context.Context, db execer, id int64, d commission.Draft) error {
	for _, r := range commission.MultiRoles {
		query := "INSERT INTO " + entriesTable(r) +
			" (commission_id, name, total_amount, at_agreement, at_registration) VALUES (?, ?, ?, ?, ?)"
		for _, row := range d.Rows(id, r) {
			_, err := db.ExecContext(ctx, query,
				row.CommissionID,
				row.Name,
				row.Total.String(),
				row.AtAgreement.String(),
				row.AtRegistration.String(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert %s entry: %w", r, err)
			}
		}
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// =============================================================================
// READS
// =============================================================================

// Load returns a commission and its child rows.
func (s *Store) Load(ctx context.Context, id int64) (*commission.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadWhere(ctx, "load", " WHERE id = ?", id)
}

// FindLatest returns the newest commission for a plot, optionally within a
// project.
func (s *Store) FindLatest(ctx context.Context, plotNo, projectName string) (*commission.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if projectName != "" {
		return s.loadWhere(ctx, "find",
			" WHERE plot_no = ? AND project_name = ? ORDER BY id DESC LIMIT 1", plotNo, projectName)
	}
	return s.loadWhere(ctx, "find", " WHERE plot_no = ? ORDER BY id DESC LIMIT 1", plotNo)
}

func (s *Store) loadWhere(ctx context.Context, op, where string, args ...any) (*commission.Record, error) {
	rs := newRecordScan()
	err := s.db.QueryRowContext(ctx, selectRecord+where, args...).Scan(rs.dest()...)
	if err == sql.ErrNoRows {
		return nil, commission.ErrNotFound
	}
	if err != nil {
		return nil, commission.NewStorageError(op, fmt.Errorf("failed to scan commission: %w", err))
	}

	rec := rs.record()
	rec.Rows = make(map[commission.Role][]commission.EntryRow, len(commission.MultiRoles))
	for _, r := range commission.MultiRoles {
		rows, err := s.loadEntries(ctx, r, rec.ID)
		if err != nil {
			return nil, commission.NewStorageError(op, err)
		}
		rec.Rows[r] = rows
	}
	return rec, nil
}

func (s *Store) loadEntries(ctx context.Context, r commission.Role, id int64) ([]commission.EntryRow, error) {
	query := "SELECT commission_id, name, total_amount, at_agreement, at_registration FROM " +
		entriesTable(r) + " WHERE commission_id = ? ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s entries: %w", r, err)
	}
	defer rows.Close()

	var out []commission.EntryRow
	for rows.Next() {
		var e commission.EntryRow
		if err := rows.Scan(&e.CommissionID, &e.Name, &e.Total, &e.AtAgreement, &e.AtRegistration); err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", r, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// List returns commission summaries ordered by numeric plot number.
func (s *Store) List(ctx context.Context, f commission.Filter) ([]commission.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, reference, plot_no, project_name, cgm_name, srgm_name, gm_name,
		       total_amount, updated_at
		FROM commissions
		WHERE (? = '' OR project_name = ?)
		  AND (? = '' OR plot_no LIKE '%' || ? || '%')
		ORDER BY CAST(plot_no AS INTEGER), plot_no, id
	`

	rows, err := s.db.QueryContext(ctx, query, f.ProjectName, f.ProjectName, f.PlotNo, f.PlotNo)
	if err != nil {
		return nil, commission.NewStorageError("list", fmt.Errorf("failed to query commissions: %w", err))
	}
	defer rows.Close()

	var out []commission.Summary
	for rows.Next() {
		var (
			sum       commission.Summary
			updatedAt string
		)
		err := rows.Scan(&sum.ID, &sum.Reference, &sum.PlotNo, &sum.ProjectName,
			&sum.CGMName, &sum.SrGMNames, &sum.GMNames, &sum.TotalAmount, &updatedAt)
		if err != nil {
			return nil, commission.NewStorageError("list", fmt.Errorf("failed to scan commission: %w", err))
		}
		sum.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, commission.NewStorageError("list", err)
	}
	return out, nil
}

// =============================================================================
// EARNINGS
// =============================================================================

// earningsWhere renders the commission-level conditions of f against the
// commissions table aliased as c.
func earningsWhere(f commission.EarningsFilter, extra ...string) (string, []any) {
	conds := append([]string(nil), extra...)
	var args []any
	if f.ProjectName != "" {
		conds = append(conds, "c.project_name = ?")
		args = append(args, f.ProjectName)
	}
	if f.CGMName != "" {
		conds = append(conds, "c.cgm_name = ?")
		args = append(args, f.CGMName)
	}
	if f.Month != "" {
		conds = append(conds, "substr(c.created_at, 1, 7) = ?")
		args = append(args, f.Month)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Earnings sums the CGM column and the child rows of every commission that
// matches f.
func (s *Store) Earnings(ctx context.Context, f commission.EarningsFilter) ([]commission.Earning, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var shares []commission.Share
	if f.Includes(commission.RoleCGM) {
		where, args := earningsWhere(f, "c.cgm_name <> ''")
		query := "SELECT c.id, c.cgm_name, c.cgm_total FROM commissions c" + where + " ORDER BY c.id"
		got, err := s.queryShares(ctx, commission.RoleCGM, query, args...)
		if err != nil {
			return nil, commission.NewStorageError("earnings", err)
		}
		shares = append(shares, got...)
	}

	for _, r := range commission.MultiRoles {
		if !f.Includes(r) {
			continue
		}
		where, args := earningsWhere(f)
		query := "SELECT e.commission_id, e.name, e.total_amount FROM " + entriesTable(r) +
			" e INNER JOIN commissions c ON e.commission_id = c.id" + where + " ORDER BY e.id"
		got, err := s.queryShares(ctx, r, query, args...)
		if err != nil {
			return nil, commission.NewStorageError("earnings", err)
		}
		shares = append(shares, got...)
	}

	return commission.TallyEarnings(shares, f.Limit), nil
}

func (s *Store) queryShares(ctx context.Context, r commission.Role, query string, args ...any) ([]commission.Share, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s earnings: %w", r, err)
	}
	defer rows.Close()

	var out []commission.Share
	for rows.Next() {
		sh := commission.Share{Role: r}
		if err := rows.Scan(&sh.CommissionID, &sh.Name, &sh.Total); err != nil {
			return nil, fmt.Errorf("failed to scan %s earnings: %w", r, err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}
