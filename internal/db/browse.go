package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultPageSize is how many rows a browse page holds.
const DefaultPageSize = 200

const queryTimeout = 15 * time.Second

// TablePage is one window into a browsed table, with values already
// rendered for display.
type TablePage struct {
	Columns     []string
	ColumnTypes []string
	Rows        [][]string
	Offset      int
	Total       int64
	ExecTime    time.Duration
}

// FetchPage reads one page of a table. When the table has a primary
// key the page is ordered by it, so paging stays stable across
// refreshes. Identifiers go through pgx sanitization.
func (d *DB) FetchPage(table string, pks []string, offset, limit int) (*TablePage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset = max(offset, 0)
	ident := pgx.Identifier{table}.Sanitize()

	total, err := d.rowCount(ctx, ident)
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", table, err)
	}

	var q strings.Builder
	q.WriteString("SELECT * FROM ")
	q.WriteString(ident)
	if len(pks) > 0 {
		q.WriteString(" ORDER BY ")
		for i, pk := range pks {
			if i > 0 {
				q.WriteString(", ")
			}
			q.WriteString(pgx.Identifier{pk}.Sanitize())
		}
	}
	fmt.Fprintf(&q, " LIMIT %d OFFSET %d", limit, offset)

	start := time.Now()
	rows, err := d.Conn.Query(ctx, q.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	page := &TablePage{Offset: offset, Total: total}
	for _, fd := range rows.FieldDescriptions() {
		page.Columns = append(page.Columns, fd.Name)
		page.ColumnTypes = append(page.ColumnTypes, typeName(fd.DataTypeOID))
	}

	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, err
		}
		cells := make([]string, len(vals))
		for i, v := range vals {
			cells[i] = formatValue(v)
		}
		page.Rows = append(page.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	page.ExecTime = time.Since(start)

	return page, nil
}

func (d *DB) rowCount(ctx context.Context, ident string) (int64, error) {
	var n int64
	err := d.Conn.QueryRow(ctx, "SELECT count(*) FROM "+ident).Scan(&n)
	return n, err
}

// formatValue renders one cell. pgx hands back native Go values for
// the common types; the rest stringify through fmt.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case []byte:
		return fmt.Sprintf("\\x%x", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// typeNames covers the OIDs a browser is likely to meet. Anything
// exotic falls back to the raw OID.
var typeNames = map[uint32]string{
	16:   "bool",
	17:   "bytea",
	20:   "int8",
	21:   "int2",
	23:   "int4",
	25:   "text",
	114:  "json",
	700:  "float4",
	701:  "float8",
	1042: "bpchar",
	1043: "varchar",
	1082: "date",
	1083: "time",
	1114: "timestamp",
	1184: "timestamptz",
	1700: "numeric",
	2950: "uuid",
	3802: "jsonb",
}

func typeName(oid uint32) string {
	if n, ok := typeNames[oid]; ok {
		return n
	}
	return fmt.Sprintf("oid %d", oid)
}
