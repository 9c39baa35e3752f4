package config

import "errors"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config validation failed")
