package port

import "context"

// Clipboard copies text to the desktop clipboard.
type Clipboard interface {
	// WriteText copies text to the clipboard.
	WriteText(ctx context.Context, text string) error
}
