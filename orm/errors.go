package orm

import (
	"github.com/crosslock-one/crosslock/errors"
)

// Orm reserves 100~109 error codes

// InvalidIndexErr is returned when an index specified is invalid
var InvalidIndexErr = errors.Register(100, "invalid index")
