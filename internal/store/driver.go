package store

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/querysql"
)

// driverName is the sqlite3 driver with listq's SQL functions registered
// on every connection.
const driverName = "sqlite3_listq"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(querysql.LowerFunc, foldValue, true)
		},
	})
}

// foldValue backs querysql.LowerFunc. SQLite's own LOWER() only folds
// ASCII, while filter literals are folded with metadata.FoldCase. NULL
// stays NULL and non-text values pass through.
func foldValue(v any) any {
	switch v := v.(type) {
	case string:
		return metadata.FoldCase(v)
	case []byte:
		if v == nil {
			return nil
		}
		return metadata.FoldCase(string(v))
	default:
		return v
	}
}
