package shortcode

import "errors"

var (
	// ErrDuplicateDefinition indicates an attempt to register a shortcode name twice.
	ErrDuplicateDefinition = errors.New("shortcode: duplicate definition")
	// ErrInvalidDefinition occurs when a definition fails schema validation.
	ErrInvalidDefinition = errors.New("shortcode: invalid definition")
	// ErrUnknownShortcode indicates content referenced a shortcode the registry does not know.
	ErrUnknownShortcode = errors.New("shortcode: unknown shortcode")
	// ErrUnresolvedRef indicates a ref shortcode pointed at a slug no document claims.
	ErrUnresolvedRef = errors.New("shortcode: unresolved reference")
)
