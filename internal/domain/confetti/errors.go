package confetti

import "errors"

// ErrInvalidInput indicates invalid confetti input.
var ErrInvalidInput = errors.New("invalid confetti input")
