package i18n

import "errors"

var (
	ErrNilAdapter               = errors.New("translation adapter is nil")
	ErrLanguageNotSupported     = errors.New("language not supported")
	ErrFailedToMarshalJSON      = errors.New("failed to marshal translations to JSON")
	ErrFailedToParseJSON        = errors.New("failed to parse JSON content")
	ErrFailedToParseYAML        = errors.New("failed to parse YAML content")
	ErrInvalidStructure         = errors.New("invalid translation structure")
	ErrFailedToReadFile         = errors.New("failed to read translation file")
	ErrFailedToReadDirectory    = errors.New("failed to read translation directory")
	ErrNoTranslationsFound      = errors.New("no translation files found")
	ErrLoadingCancelled         = errors.New("loading translations cancelled")
	ErrUnsupportedFileExtension = errors.New("unsupported translation file extension")
)
