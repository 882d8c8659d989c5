//go:build !darwin

package screenshot

import "context"

// HasPermission reports false where capture is unsupported.
func HasPermission() bool {
	return false
}

// RequestPermission is a no-op where capture is unsupported.
func RequestPermission() {}

func captureTo(context.Context, string) error {
	return ErrUnsupported
}
