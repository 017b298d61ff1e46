package surreal

import (
	"context"
	"fmt"
	"reflect"
	"regexp"

	"github.com/surrealdb/surrealdb.go"
)

// Client is a signed-in connection scoped to one namespace and database.
// The record store keeps one row per user in a single table through it.
type Client struct {
	db *surrealdb.DB
}

var identifierRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ValidateIdentifier guards table names, which cannot be passed as query
// variables.
func ValidateIdentifier(s string) error {
	if !identifierRegex.MatchString(s) {
		return fmt.Errorf("invalid identifier: %q", s)
	}
	return nil
}

// NewClient connects to a websocket RPC endpoint, signs in as a root or
// namespace user and selects namespace/database.
func NewClient(ctx context.Context, url, user, pass, namespace, database string) (*Client, error) {
	db, err := surrealdb.New(url)
	if err != nil {
		return nil, fmt.Errorf("connect to surrealdb: %w", err)
	}

	credentials := map[string]interface{}{"user": user, "pass": pass}
	if _, err := db.SignIn(ctx, credentials); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("sign in to surrealdb: %w", err)
	}
	if err := db.Use(ctx, namespace, database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("use %s/%s: %w", namespace, database, err)
	}

	return &Client{db: db}, nil
}

func (c *Client) Close() {
	c.db.Close(context.Background())
}

// Query runs sql and returns the rows of its last statement.
func (c *Client) Query(ctx context.Context, sql string, vars map[string]interface{}) (interface{}, error) {
	result, err := surrealdb.Query[interface{}](ctx, c.db, sql, vars)
	if err != nil {
		return nil, err
	}
	return lastResult(result), nil
}

// lastResult takes the Result field of the last statement out of a query
// response. Anything else is returned as is.
func lastResult(response interface{}) interface{} {
	rv := reflect.ValueOf(response)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return response
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 0 {
			return response
		}
		rv = rv.Index(rv.Len() - 1)
	}
	if rv.Kind() != reflect.Struct {
		return response
	}
	if field := rv.FieldByName("Result"); field.IsValid() {
		return field.Interface()
	}
	return response
}
