package ws

import "errors"

var ErrClosed = errors.New("connection closed")
