// Package docstore persists named layout documents in a local sqlite
// database. The engine itself never touches it; the application layer saves
// and loads documents through the export package's codec.
package docstore
