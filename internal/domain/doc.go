// Package domain contains the core learning entities: cards, per-card
// statistics, aggregate progress, favorites, quiz history and settings.
// It is independent of storage and delivery; the arithmetic that keeps
// progress totals and the streak consistent lives here.
package domain
