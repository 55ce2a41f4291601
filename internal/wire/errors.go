package wire

import "errors"

var (
	ErrMalformed = errors.New("wire: malformed message")
	ErrOverflow  = errors.New("wire: string exceeds length prefix range")
)
