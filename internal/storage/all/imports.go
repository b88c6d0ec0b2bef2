// Package all registers every built-in sink with the storage factory. Import
// it for side effects from the wiring layer:
//
//	import _ "lifeexp/internal/storage/all"
//
// after which storage.New and storage.Write accept the kinds csv, postgres,
// sqlite, mssql and mysql.
package all

import (
	_ "lifeexp/internal/storage/csvfile"
	_ "lifeexp/internal/storage/mssql"
	_ "lifeexp/internal/storage/mysql"
	_ "lifeexp/internal/storage/postgres"
	_ "lifeexp/internal/storage/sqlite"
)
