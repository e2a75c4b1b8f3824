// Package postgres implements the store interfaces over PostgreSQL.
// It owns query construction, row scanning between database records and
// domain entities, and the mapping of driver errors onto the store
// error taxonomy.
package postgres
