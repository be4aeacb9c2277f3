package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"robotapp-backend/internal/repository/interfaces"
	"robotapp-backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const duplicateEntry = 1062

// Open connects with the pool settings used in production
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// Each table keeps the filter and sort columns next to the full JSON document.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(24) PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME(6) NOT NULL,
		data JSON NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id CHAR(24) PRIMARY KEY,
		order_number VARCHAR(20) NOT NULL UNIQUE,
		user_id VARCHAR(24) NOT NULL DEFAULT '',
		order_status VARCHAR(20) NOT NULL,
		payment_status VARCHAR(20) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		total_amount DOUBLE NOT NULL,
		created_at DATETIME(6) NOT NULL,
		data JSON NOT NULL,
		INDEX idx_orders_user (user_id, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id CHAR(24) PRIMARY KEY,
		slug VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		variant VARCHAR(20) NOT NULL,
		description TEXT,
		tags TEXT,
		price DOUBLE NOT NULL,
		stock INT NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at DATETIME(6) NOT NULL,
		data JSON NOT NULL,
		INDEX idx_products_variant (variant, is_active)
	)`,
	`CREATE TABLE IF NOT EXISTS support_tickets (
		id CHAR(24) PRIMARY KEY,
		ticket_number VARCHAR(20) NOT NULL UNIQUE,
		user_id VARCHAR(24) NOT NULL,
		status VARCHAR(20) NOT NULL,
		priority VARCHAR(20) NOT NULL,
		category VARCHAR(30) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		description TEXT,
		created_at DATETIME(6) NOT NULL,
		data JSON NOT NULL,
		INDEX idx_tickets_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id CHAR(24) PRIMARY KEY,
		user_id VARCHAR(24) NOT NULL,
		category VARCHAR(30) NOT NULL,
		status VARCHAR(20) NOT NULL,
		title VARCHAR(255) NOT NULL,
		message TEXT,
		score INT NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		data JSON NOT NULL,
		INDEX idx_feedback_status (status, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id CHAR(24) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		body TEXT,
		tags TEXT,
		is_resolved BOOLEAN NOT NULL DEFAULT FALSE,
		views INT NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		data JSON NOT NULL
	)`,
}

// InitSchema creates missing tables
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			util.Logger.Error("error creating schema", zap.Error(err))
			return err
		}
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return interfaces.ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == duplicateEntry {
		return interfaces.ErrDuplicate
	}
	return err
}

// columns maps column names to values for one row
type columns struct {
	names  []string
	values []interface{}
}

func (c *columns) set(name string, value interface{}) *columns {
	c.names = append(c.names, name)
	c.values = append(c.values, value)
	return c
}

func insertRow(ctx context.Context, db *sql.DB, table string, cols *columns, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	cols.set("data", data)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols.names, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols.names)), ", "))
	_, err = db.ExecContext(ctx, query, cols.values...)
	return translateError(err)
}

func updateRow(ctx context.Context, db *sql.DB, table, id string, cols *columns, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	cols.set("data", data)

	assignments := make([]string, len(cols.names))
	for i, name := range cols.names {
		assignments[i] = name + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(assignments, ", "))
	res, err := db.ExecContext(ctx, query, append(cols.values, id)...)
	if err != nil {
		return translateError(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// unchanged rows also report zero
	return exists(ctx, db, table, id)
}

func deleteRow(ctx context.Context, db *sql.DB, table, id string) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func exists(ctx context.Context, db *sql.DB, table, id string) error {
	var one int
	err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT 1 FROM %s WHERE id = ?", table), id).Scan(&one)
	return translateError(err)
}

// getDoc decodes the data column of the first matching row
func getDoc(ctx context.Context, db *sql.DB, table, column string, value interface{}, dst interface{}) error {
	var data []byte
	query := fmt.Sprintf("SELECT data FROM %s WHERE %s = ?", table, column)
	if err := db.QueryRowContext(ctx, query, value).Scan(&data); err != nil {
		return translateError(err)
	}
	return json.Unmarshal(data, dst)
}

// listDocs runs a count and a paginated select over the same conditions
func listDocs[T any](ctx context.Context, db *sql.DB, table string, w *where, orderBy string, page, limit int) ([]*T, int64, error) {
	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, w.clause())
	if err := db.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT data FROM %s%s ORDER BY %s", table, w.clause(), orderBy)
	args := append([]interface{}{}, w.args...)
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, 0, err
		}
		item := new(T)
		if err := json.Unmarshal(data, item); err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

func count(ctx context.Context, db *sql.DB, table string, w *where) (int64, error) {
	var n int64
	err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, w.clause()), w.args...).Scan(&n)
	return n, err
}

// where accumulates AND-ed conditions
type where struct {
	conds []string
	args  []interface{}
}

func (w *where) add(cond string, args ...interface{}) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// search matches term as a substring of any of the columns
func (w *where) search(term string, cols ...string) {
	if term == "" {
		return
	}
	pattern := "%" + escapeLike(term) + "%"
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + " LIKE ?"
		w.args = append(w.args, pattern)
	}
	w.conds = append(w.conds, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy resolves an API sort field through a whitelist of columns
func orderBy(allowed map[string]string, field string, desc bool) string {
	col, ok := allowed[field]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	if col == "created_at" {
		return "created_at " + dir
	}
	return col + " " + dir + ", created_at DESC"
}

// joinTags stores tags as ",a,b," so a single tag matches with LIKE
func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}
