package kv

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQuerier struct {
	QueryFunc func(sql string, vars map[string]interface{}) (interface{}, error)
	queries   []string
}

func (m *mockQuerier) Query(_ context.Context, sql string, vars map[string]interface{}) (interface{}, error) {
	m.queries = append(m.queries, sql)
	if m.QueryFunc != nil {
		return m.QueryFunc(sql, vars)
	}
	return []interface{}{}, nil
}

func TestNewSurreal_RejectsBadTable(t *testing.T) {
	_, err := NewSurreal(context.Background(), &mockQuerier{}, "user-records")
	assert.Error(t, err)
}

func TestSurreal_DefinesSchema(t *testing.T) {
	q := &mockQuerier{}
	_, err := NewSurreal(context.Background(), q, "user_records")
	require.NoError(t, err)
	require.Len(t, q.queries, 1)
	assert.Contains(t, q.queries[0], "DEFINE TABLE IF NOT EXISTS user_records")
}

func TestSurreal_GetPut(t *testing.T) {
	ctx := context.Background()
	stored := map[string]string{}

	q := &mockQuerier{}
	q.QueryFunc = func(sql string, vars map[string]interface{}) (interface{}, error) {
		switch {
		case strings.HasPrefix(strings.TrimSpace(sql), "UPSERT"):
			assert.Equal(t, "user_records", vars["table"])
			stored[vars["id"].(string)] = vars["data"].(string)
			return []interface{}{}, nil
		case strings.HasPrefix(strings.TrimSpace(sql), "SELECT"):
			data, ok := stored[vars["id"].(string)]
			if !ok {
				return []interface{}{}, nil
			}
			return []interface{}{map[string]interface{}{"data": data}}, nil
		}
		return []interface{}{}, nil
	}

	s, err := NewSurreal(ctx, q, "user_records")
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "42", []byte(`{"id":"42","score":5}`)))

	got, ok, err := s.Get(ctx, "42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"42","score":5}`, string(got))
}

func TestSurreal_GetPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	q := &mockQuerier{}
	s, err := NewSurreal(ctx, q, "user_records")
	require.NoError(t, err)

	q.QueryFunc = func(sql string, vars map[string]interface{}) (interface{}, error) {
		return nil, errors.New("connection reset")
	}
	_, _, err = s.Get(ctx, "42")
	assert.EqualError(t, err, "connection reset")

	q.QueryFunc = func(sql string, vars map[string]interface{}) (interface{}, error) {
		return []interface{}{map[string]interface{}{"other": 1}}, nil
	}
	_, _, err = s.Get(ctx, "42")
	assert.Error(t, err, "a row without data must not be treated as a record")
}
