// Package postgres implements the record store using pgx/v5 with raw SQL.
// Each collection is a table keyed by a single text-comparable column
// ("id" unless [WithKeyColumn] says otherwise). Identifiers are quoted with
// pgx.Identifier; batch deletes are transactional.
package postgres
