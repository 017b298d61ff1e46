package kv

import (
	"context"
	"fmt"

	"healthbot/pkg/surreal"
)

// Querier is the part of surreal.Client the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, vars map[string]interface{}) (interface{}, error)
}

// Surreal keeps each record as a JSON string in the `data` field of
// <table>:<user id>.
type Surreal struct {
	client Querier
	table  string
}

func NewSurreal(ctx context.Context, client Querier, table string) (*Surreal, error) {
	if err := surreal.ValidateIdentifier(table); err != nil {
		return nil, err
	}
	s := &Surreal{client: client, table: table}
	if err := s.init(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize surrealdb schema: %w", err)
	}
	return s, nil
}

func (s *Surreal) init(ctx context.Context) error {
	query := fmt.Sprintf(`
		DEFINE TABLE IF NOT EXISTS %[1]s SCHEMAFULL;
		DEFINE FIELD IF NOT EXISTS data ON %[1]s TYPE string;
		DEFINE FIELD IF NOT EXISTS updated_at ON %[1]s TYPE int;
	`, s.table)
	_, err := s.client.Query(ctx, query, map[string]interface{}{})
	return err
}

func (s *Surreal) Get(ctx context.Context, id string) ([]byte, bool, error) {
	query := `SELECT data FROM type::thing($table, $id);`
	result, err := s.client.Query(ctx, query, map[string]interface{}{
		"table": s.table,
		"id":    id,
	})
	if err != nil {
		return nil, false, err
	}

	rows, ok := result.([]interface{})
	if !ok || len(rows) == 0 {
		return nil, false, nil
	}
	row, ok := rows[0].(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("unexpected row type: %T", rows[0])
	}
	data, ok := row["data"].(string)
	if !ok {
		return nil, false, fmt.Errorf("record %s has no data field", id)
	}
	return []byte(data), true, nil
}

func (s *Surreal) Put(ctx context.Context, id string, data []byte) error {
	query := `UPSERT type::thing($table, $id) SET data = $data, updated_at = time::unix();`
	_, err := s.client.Query(ctx, query, map[string]interface{}{
		"table": s.table,
		"id":    id,
		"data":  string(data),
	})
	return err
}
