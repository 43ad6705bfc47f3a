// Package sqlite persists workspace state in a SQLite database using
// modernc.org/sqlite, a pure Go driver, so the binary needs no CGO.
//
// The store holds one table, workspace_state, mapping a key such as
// "pdfjs-reader.view" to the JSON value written by the workspace service.
// The schema is created by the embedded migrations in migrations/.
//
// The database lives at <data dir>/state.db, ~/.pdfpanel/state.db unless
// --data-dir says otherwise. It is opened in WAL mode so the CLI can read
// state while a serve process writes it.
package sqlite
