// Package sqlstate persists snapshots into a two-column SQL table,
// one JSON payload per bucket. It is shared by the SQL backends.
package sqlstate

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/jd-116/fooddb/db"
	"github.com/jd-116/fooddb/types"
)

// Bucket names stored in the state table
const (
	BucketFoods = "foods"
	BucketMeals = "meals"
)

// Dialect captures the differences between the supported SQL databases
type Dialect struct {
	Name        string
	Placeholder func(n int) string
}

// SQLite uses '?' placeholders
var SQLite = Dialect{
	Name:        "sqlite",
	Placeholder: func(int) string { return "?" },
}

// Postgres uses numbered '$n' placeholders
var Postgres = Dialect{
	Name:        "postgres",
	Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

// Table reads and writes snapshots in a single state table
type Table struct {
	DB      *sql.DB
	Name    string
	Dialect Dialect
}

// Ensure creates the state table if it does not exist
func (t *Table) Ensure(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		bucket TEXT PRIMARY KEY,
		payload BYTEA NOT NULL
	)`, t.Name)
	if t.Dialect.Name == SQLite.Name {
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`, t.Name)
	}

	if _, err := t.DB.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "create state table")
	}
	return nil
}

// Load reads every bucket and decodes them into a snapshot
func (t *Table) Load(ctx context.Context) (*types.Snapshot, error) {
	rows, err := t.DB.QueryContext(ctx, fmt.Sprintf(`SELECT bucket, payload FROM %s`, t.Name))
	if err != nil {
		return nil, errors.Wrap(err, "select state")
	}
	defer func() { _ = rows.Close() }()

	payloads := make(map[string][]byte)
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return nil, errors.Wrap(err, "scan state")
		}
		payloads[bucket] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate state")
	}

	if len(payloads) == 0 {
		return nil, db.NewNoSnapshotError(fmt.Sprintf("%s table %s", t.Dialect.Name, t.Name))
	}
	return DecodeBuckets(payloads)
}

// Save writes every bucket in a single transaction
func (t *Table) Save(ctx context.Context, snapshot types.Snapshot) (retErr error) {
	payloads, err := EncodeBuckets(snapshot)
	if err != nil {
		return err
	}

	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin state transaction")
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	upsert := fmt.Sprintf(
		`INSERT INTO %s (bucket, payload) VALUES (%s, %s)
		ON CONFLICT (bucket) DO UPDATE SET payload = excluded.payload`,
		t.Name, t.Dialect.Placeholder(1), t.Dialect.Placeholder(2))
	for _, bucket := range []string{BucketFoods, BucketMeals} {
		if _, err := tx.ExecContext(ctx, upsert, bucket, payloads[bucket]); err != nil {
			return errors.Wrapf(err, "write %s bucket", bucket)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit state transaction")
	}
	return nil
}

// EncodeBuckets splits a snapshot into one JSON payload per bucket
func EncodeBuckets(snapshot types.Snapshot) (map[string][]byte, error) {
	foods := snapshot.Foods
	if foods == nil {
		foods = []types.Food{}
	}
	meals := snapshot.Meals
	if meals == nil {
		meals = []types.Meal{}
	}

	foodPayload, err := json.Marshal(foods)
	if err != nil {
		return nil, errors.Wrap(err, "encode foods")
	}
	mealPayload, err := json.Marshal(meals)
	if err != nil {
		return nil, errors.Wrap(err, "encode meals")
	}

	return map[string][]byte{
		BucketFoods: foodPayload,
		BucketMeals: mealPayload,
	}, nil
}

// DecodeBuckets rebuilds a snapshot from its bucket payloads.
// Missing buckets decode as empty collections; unknown buckets are ignored.
func DecodeBuckets(payloads map[string][]byte) (*types.Snapshot, error) {
	snapshot := types.Snapshot{
		Foods: []types.Food{},
		Meals: []types.Meal{},
	}

	if payload, ok := payloads[BucketFoods]; ok {
		if err := json.Unmarshal(payload, &snapshot.Foods); err != nil {
			return nil, errors.Wrap(err, "decode foods")
		}
	}
	if payload, ok := payloads[BucketMeals]; ok {
		if err := json.Unmarshal(payload, &snapshot.Meals); err != nil {
			return nil, errors.Wrap(err, "decode meals")
		}
	}

	return &snapshot, nil
}
