package extract

import "errors"

// ErrNamingExhausted is returned when no unique sheet name can be derived
// within the suffix budget.
var ErrNamingExhausted = errors.New("sheet naming exhausted")
