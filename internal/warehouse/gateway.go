// Package warehouse owns everything that touches Postgres: schema
// bootstrap, the bulk upsert gateway, dimension upserts, and the synthetic
// identity backfill. Every batch-bearing operation runs inside its own
// transaction — a batch is applied completely or not at all.
package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Policy selects how a merge treats rows whose key already exists.
type Policy int

const (
	// InsertOnly inserts new rows and silently ignores key conflicts.
	// Fact and line tables use this: a previously-stored row is never
	// rewritten by the gateway, only by the targeted backfill.
	InsertOnly Policy = iota

	// UpsertNonKey overwrites non-key columns on conflict (last write
	// wins). Dimension tables use this.
	UpsertNonKey
)

// Table describes one merge target: its columns in batch order, its
// uniqueness constraint, and its conflict policy.
type Table struct {
	Name       string
	Columns    []string
	KeyColumns []string
	Policy     Policy
}

// Gateway bulk-loads tabular batches into the warehouse and merges them
// under each table's uniqueness contract.
type Gateway struct {
	pool   *pgxpool.Pool
	schema string
	logger *slog.Logger
}

// NewGateway creates a gateway writing into the given schema.
func NewGateway(pool *pgxpool.Pool, schema string, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{pool: pool, schema: schema, logger: logger}
}

// batchSize caps how many rows a single staging COPY carries. Chunking is
// a resource bound only, never a transaction boundary.
const batchSize = 1000

// Merge stages the batch into a transaction-scoped temp table via COPY and
// merges it into the target under the table's conflict policy, all in one
// transaction: the batch lands completely or not at all. The staging COPY
// runs in batchSize slices inside that transaction. Returns the number of
// rows actually written to the target. Loading the same batch twice under
// InsertOnly leaves the target unchanged the second time.
func (g *Gateway) Merge(ctx context.Context, t Table, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin merge %s: %w", t.Name, err)
	}
	defer tx.Rollback(ctx)

	tmp := "tmp_" + t.Name
	createTmp := fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s.%s INCLUDING DEFAULTS) ON COMMIT DROP",
		tmp, g.schema, t.Name,
	)
	if _, err := tx.Exec(ctx, createTmp); err != nil {
		return 0, fmt.Errorf("create staging table for %s: %w", t.Name, err)
	}

	var copied int64
	for _, part := range chunkRows(rows, batchSize) {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{tmp}, t.Columns, pgx.CopyFromRows(part))
		if err != nil {
			return 0, fmt.Errorf("copy into staging table for %s: %w", t.Name, err)
		}
		copied += n
	}

	tag, err := tx.Exec(ctx, mergeSQL(g.schema, t, tmp))
	if err != nil {
		return 0, fmt.Errorf("merge %s: %w", t.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit merge %s: %w", t.Name, err)
	}

	g.logger.Info("Batch merged",
		"table", t.Name, "staged", copied, "written", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

// chunkRows splits rows into size-bounded slices, preserving order.
func chunkRows(rows [][]any, size int) [][][]any {
	if size <= 0 || len(rows) == 0 {
		return nil
	}
	chunks := make([][][]any, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// mergeSQL builds the staging-to-target merge statement for a table.
func mergeSQL(schema string, t Table, tmp string) string {
	cols := strings.Join(t.Columns, ", ")
	keys := strings.Join(t.KeyColumns, ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s.%s (%s)\nSELECT %s FROM %s\nON CONFLICT (%s) ",
		schema, t.Name, cols, cols, tmp, keys)

	if t.Policy == InsertOnly {
		b.WriteString("DO NOTHING")
		return b.String()
	}

	b.WriteString("DO UPDATE SET ")
	key := make(map[string]bool, len(t.KeyColumns))
	for _, k := range t.KeyColumns {
		key[k] = true
	}
	first := true
	for _, c := range t.Columns {
		if key[c] {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s = EXCLUDED.%s", c, c)
		first = false
	}
	return b.String()
}
