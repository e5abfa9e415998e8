// Package resource implements the persistence core of Ecosfera: the five
// row-shaped domain entities (User, Device, Automation, EnergyReading,
// Alert) and one generic SQLite repository instantiated per entity.
//
// The repository contract is uniform: List, GetByID, Create, Update,
// Delete. Create allocates the key atomically from the id_sequences
// counter table inside the insert transaction, so concurrent creates on
// the same table always receive distinct, monotonically increasing keys.
// Keys are never reused after a delete.
//
// Behavioral divergences between entities are configuration, not copies:
// the device repository reports an empty List as ErrNotFound because the
// public API has always answered 404 for an empty device collection.
//
// Error handling follows errors.Is sentinels:
//
//	if errors.Is(err, resource.ErrNotFound) { ... }
//	if errors.Is(err, resource.ErrConflict) { ... } // FK violation
package resource
