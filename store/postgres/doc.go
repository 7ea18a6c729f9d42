// Package postgres provides the PostgreSQL token store and audit sink for
// multi-instance deployments. Schema setup runs through goose with embedded
// migrations.
package postgres
