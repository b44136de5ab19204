package tracescore

import "errors"

// Sentinel errors returned by Score and RenderReference. Returned errors
// wrap one of these; test with errors.Is.
var (
	// ErrDecode is returned when the drawing is not a recognized image.
	ErrDecode = errors.New("tracescore: failed to decode image")

	// ErrFontParse is returned when the font data cannot be parsed.
	ErrFontParse = errors.New("tracescore: failed to parse font data")

	// ErrEncode is returned when the reference image cannot be encoded.
	ErrEncode = errors.New("tracescore: failed to encode image")

	// ErrEmptyCharacter is returned when the target character is empty.
	ErrEmptyCharacter = errors.New("tracescore: empty character string")
)
