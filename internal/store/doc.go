// Package store defines the key/value record abstraction that every stateful
// component persists through, plus a typed get-or-default wrapper and an
// in-memory implementation. Durable engines live under internal/platform.
package store
