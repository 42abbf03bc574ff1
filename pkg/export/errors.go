package export

import "errors"

var (
	// ErrClipboardWrite is recoverable; the caller may retry.
	ErrClipboardWrite  = errors.New("failed to copy, try again")
	ErrNoClipboard     = errors.New("no clipboard tool available")
	ErrRichUnsupported = errors.New("clipboard does not support rich text")
	ErrNoOpener        = errors.New("no URL opener available")
	ErrNotConfigured   = errors.New("export target not configured")
)
