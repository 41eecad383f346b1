// Package repository implements data access over MySQL.  Each repository
// owns one cluster of tables; methods suffixed Tx run inside a
// caller-owned transaction and the caller commits or rolls back the whole
// unit of work.  Sentinel errors defined here let handlers distinguish
// failure classes without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup yields no rows.  Handlers
// translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write loses a uniqueness race, such as
// two customers claiming the same seat or a duplicate aircraft tail
// number.  Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// ErrRefExhausted is returned when booking creation gives up after
// colliding on generated references several times in a row.
var ErrRefExhausted = errors.New("could not generate a unique booking reference")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (1062), the signal that a unique constraint arbitrated a race.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
