// Package store provides SQLite-backed storage for registry entities.
//
// Every entity gets one table: an INTEGER PRIMARY KEY "id", one column per
// attribute, and one INTEGER column per belongs-to foreign key with a
// REFERENCES constraint and an index. Reads go through querysql, so list
// queries, counts and include lookups share the compiled, parameterized
// SQL the filter and sort compilers produce.
//
// # Deterministic Query Results
//
// Every SELECT ends with ORDER BY ..., <table>.id ASC, so pages over equal
// sort keys are stable.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Scanned values are normalized to int64, float64, bool, string or nil
// according to the column's field type.
package store
