package repository

import "errors"

// ErrNoRowsAffected reports an update or delete whose WHERE clause matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")
