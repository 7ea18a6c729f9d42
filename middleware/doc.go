// Package middleware provides HTTP adapters over the engine: bearer-token
// guarding and fixed-window request throttling, for both net/http and gin
// stacks.
package middleware
