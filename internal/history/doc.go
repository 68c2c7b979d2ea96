// Package history keeps a SQLite ledger of generation runs.
//
// Each run is inserted as running when it starts and finished exactly once
// with its outcome. Failed runs keep the classified error so the history
// command can show why a slideshow was not produced.
package history
