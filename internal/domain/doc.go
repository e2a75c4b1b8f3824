// Package domain holds the core entities of the learning system:
// card interactions, learner profiles, category progress and the XP
// ledger, along with their validation rules and status derivation.
// It has no dependencies on storage or transport.
package domain
