package crew

import "errors"

var ErrValidation = errors.New("validation error")
