// Package postgres implements the session and history stores on PostgreSQL
// through database/sql with the pgx driver. Schema changes are goose
// migrations embedded in the binary.
//
// Debits are a single UPDATE with GREATEST(..., 0), so concurrent requests
// for one session never lose an update. Record appends the history row and
// debits the session inside one transaction.
package postgres
