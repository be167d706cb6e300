// Package testutil provides a stub database/sql driver for postgres store
// tests. It serves only the games table statements the store issues.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// GameRow is one row of the games table.
type GameRow struct {
	ID        string
	Payload   []byte
	UpdatedAt driver.Value
}

// StubConn records statements and keeps the games table in memory.
type StubConn struct {
	Execs     []string
	Games     []GameRow
	FailPing  bool
	FailExec  bool
	FailQuery bool
	RowsErr   error
}

var driverSeq atomic.Int64

// NewStubDB registers a uniquely named driver and opens a sql.DB on it.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{}
	name := fmt.Sprintf("stubpg%d", driverSeq.Add(1))
	sql.Register(name, stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	db.SetMaxOpenConns(1)
	return db, conn
}

type stubDriver struct{ conn *StubConn }

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn; the store never prepares statements.
func (c *StubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, fmt.Errorf("prepare not supported: %s", query)
}

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn; the store never opens transactions.
func (c *StubConn) Begin() (driver.Tx, error) { return nil, errors.New("transactions not supported") }

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return errors.New("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, errors.New("exec fail")
	}
	stmt := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(stmt, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(stmt, "INSERT INTO GAMES"):
		if len(args) != 3 {
			return nil, fmt.Errorf("insert: want 3 args, got %d", len(args))
		}
		row, err := gameRow(args)
		if err != nil {
			return nil, err
		}
		c.Games = append(c.without(row.ID), row)
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(stmt, "DELETE FROM GAMES"):
		if len(args) != 1 {
			return nil, fmt.Errorf("delete: want 1 arg, got %d", len(args))
		}
		before := len(c.Games)
		c.Games = c.without(fmt.Sprint(args[0].Value))
		return driver.RowsAffected(int64(before - len(c.Games))), nil
	}
	return nil, fmt.Errorf("unexpected statement: %s", query)
}

func gameRow(args []driver.NamedValue) (GameRow, error) {
	id, ok := args[0].Value.(string)
	if !ok {
		return GameRow{}, fmt.Errorf("insert: id is %T", args[0].Value)
	}
	payload, ok := args[1].Value.([]byte)
	if !ok {
		return GameRow{}, fmt.Errorf("insert: payload is %T", args[1].Value)
	}
	return GameRow{ID: id, Payload: append([]byte(nil), payload...), UpdatedAt: args[2].Value}, nil
}

func (c *StubConn) without(id string) []GameRow {
	kept := make([]GameRow, 0, len(c.Games))
	for _, row := range c.Games {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	return kept
}

// QueryContext implements driver.QueryerContext for SELECT id, payload FROM games.
func (c *StubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if c.FailQuery {
		return nil, errors.New("query fail")
	}
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT ID, PAYLOAD FROM GAMES") {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return &gameRows{rows: append([]GameRow(nil), c.Games...), err: c.RowsErr}, nil
}

type gameRows struct {
	rows []GameRow
	err  error
}

func (r *gameRows) Columns() []string { return []string{"id", "payload"} }
func (r *gameRows) Close() error      { return nil }

func (r *gameRows) Next(dest []driver.Value) error {
	if len(r.rows) == 0 {
		if r.err != nil {
			return r.err
		}
		return io.EOF
	}
	dest[0], dest[1] = r.rows[0].ID, r.rows[0].Payload
	r.rows = r.rows[1:]
	return nil
}
