// Package models defines the core domain models for tabsplit.
//
// # Models
//
//   - Bill: a bill being split, or an archived snapshot of one
//   - Person: someone taking part in a bill
//   - Item: a priced line item, in its own currency, assigned to people
//   - PersonSummary: calculated breakdown for one person (derived, never stored)
//
// # Ownership
//
// A Bill exclusively owns its People and Items. Items reference people by ID
// string, never by pointer, so a bill can be copied, serialized and restored
// without fixing up references.
//
// # Lifecycle
//
// A bill starts blank (NewBill), is edited through AddPerson, RemovePerson,
// AddItem, UpdateItem and RemoveItem, and is archived to history as a snapshot.
// Archived snapshots are never edited in place: loading one from history goes
// through Clone, which returns an independent copy.
package models
