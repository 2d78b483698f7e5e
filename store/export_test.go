package store

// SQLiteDSN exposes sqliteDSN to store_test.
func SQLiteDSN(path string) string { return sqliteDSN(path) }
