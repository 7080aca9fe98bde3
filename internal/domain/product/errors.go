package product

import "errors"

var ErrQueryTooShort = errors.New("search query must be at least 2 characters")
