package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation
const mysqlDuplicateEntry = 1062

// duplicateKey reports whether err is a unique key violation and returns the violated key name
//
// MySQL formats the message as "Duplicate entry '<value>' for key '<table>.<key>'" (8.0)
// or "... for key '<key>'" (5.7), so callers should match the key with strings.Contains.
func duplicateKey(err error) (string, bool) {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return "", false
	}

	msg := mysqlErr.Message
	idx := strings.LastIndex(msg, "for key '")
	if idx < 0 {
		return "", true
	}
	key := strings.TrimSuffix(msg[idx+len("for key '"):], "'")
	return key, true
}
