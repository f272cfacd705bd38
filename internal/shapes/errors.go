package shapes

import "errors"

var (
	ErrInvalidBounds = errors.New("shapes: invalid box bounds")
	ErrEmptyShape    = errors.New("shapes: empty shape has no bounds")
)
