// Package outputs persists the bounded history of exported frame streams.
//
// The whole history is one JSON array stored under a single key and
// rewritten on every mutation. It holds at most Capacity records,
// most-recent-first; saving past capacity evicts from the back. Reads never
// fail: a missing or unreadable blob is treated as an empty history and
// logged. Writes report success as a bool and log the cause on failure.
//
// Two backends are provided: FileBackend keeps the blob in a JSON file
// rewritten atomically under an advisory lock, and SQLiteBackend keeps it in
// a single-row key/value table.
package outputs
