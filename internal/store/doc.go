// Package store declares the persistence interfaces for interactions,
// profiles, category rollups and the XP ledger, together with the
// sentinel errors implementations map driver failures onto. Services
// depend on these interfaces only, never on a concrete database.
package store
