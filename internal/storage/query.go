package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Predicater renders one filter's accumulated state as a SQL predicate
// fragment plus the parameters bound to its placeholders. Implemented by
// the filter variants.
type Predicater interface {
	Predicate() (clause string, args []any, err error)
}

// composeWhere renders the filters' fragments as additional AND
// conditions and flattens their parameters in the same order.
//
// The iteration order of clauses and parameters must agree, or bound
// values silently attach to the wrong placeholder; the per-filter
// placeholder count check catches any filter that breaks the contract.
func composeWhere(filters []Predicater) (string, []any, error) {
	var b strings.Builder
	var args []any

	for _, f := range filters {
		clause, clauseArgs, err := f.Predicate()
		if err != nil {
			return "", nil, fmt.Errorf("failed to render filter predicate: %w", err)
		}
		if n := strings.Count(clause, "?"); n != len(clauseArgs) {
			return "", nil, fmt.Errorf("predicate %q has %d placeholders but %d bound parameters", clause, n, len(clauseArgs))
		}
		b.WriteString("\n  AND (")
		b.WriteString(clause)
		b.WriteString(")")
		args = append(args, clauseArgs...)
	}

	return b.String(), args, nil
}

// ComposeEventQuery assembles the full event query for the given filters.
// With no filters the base query is returned unchanged and the parameter
// list is empty.
func ComposeEventQuery(filters []Predicater) (string, []any, error) {
	where, args, err := composeWhere(filters)
	if err != nil {
		return "", nil, err
	}
	return baseEventQuery + where + eventOrderClause, args, nil
}

// ComposeCountQuery assembles the aggregate count query for the given
// filters.
func ComposeCountQuery(filters []Predicater) (string, []any, error) {
	where, args, err := composeWhere(filters)
	if err != nil {
		return "", nil, err
	}
	return baseCountQuery + where + countGroupClause, args, nil
}

// EventCursor streams the rows of one event query in ascending event id
// order. Callers must Close it.
type EventCursor struct {
	rows    *sql.Rows
	current Event
	scanErr error
}

// Next advances to the next row, returning false at the end of the result
// set or on error
func (c *EventCursor) Next() bool {
	if c.scanErr != nil || !c.rows.Next() {
		return false
	}
	c.scanErr = c.rows.Scan(
		&c.current.TypeName,
		&c.current.StorageTime,
		&c.current.Outgoing,
		&c.current.RemoteUID,
		&c.current.RemoteName,
		&c.current.FreeText,
	)
	return c.scanErr == nil
}

// Event returns the current row
func (c *EventCursor) Event() Event {
	return c.current
}

// Err returns the first error encountered during iteration
func (c *EventCursor) Err() error {
	if c.scanErr != nil {
		return fmt.Errorf("failed to scan event row: %w", c.scanErr)
	}
	return c.rows.Err()
}

// Close releases the underlying rows
func (c *EventCursor) Close() error {
	return c.rows.Close()
}

// QueryEvents composes and executes the event query for the given filters
// and returns a cursor over the matching rows
func (s *Store) QueryEvents(filters []Predicater) (*EventCursor, error) {
	query, args, err := ComposeEventQuery(filters)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("query", query).
		Int("args", len(args)).
		Msg("Executing event query")

	// Background context: rows are consumed after this call returns
	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, &UnavailableError{Op: "query", Path: s.path, Cause: err}
	}

	return &EventCursor{rows: rows}, nil
}

// QueryEventCounts composes and executes the aggregate count query for
// the given filters
func (s *Store) QueryEventCounts(filters []Predicater) ([]EventCount, error) {
	query, args, err := ComposeCountQuery(filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(context.Background(), query, args...)
	if err != nil {
		return nil, &UnavailableError{Op: "query", Path: s.path, Cause: err}
	}
	defer rows.Close()

	var counts []EventCount
	for rows.Next() {
		var ec EventCount
		if err := rows.Scan(&ec.TypeName, &ec.Outgoing, &ec.RemoteUID, &ec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts = append(counts, ec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}

	return counts, nil
}
