package material

import "errors"

// ErrParse is returned (wrapped) for any malformed material specifier.
var ErrParse = errors.New("material: cannot parse specifier")
