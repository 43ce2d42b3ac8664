package keyboard

import "github.com/tansive/keyboardserver/internal/common/apperrors"

var (
	// ErrKeyboardError is the base error for the package.
	ErrKeyboardError = apperrors.New("keyboard error")

	// ErrTypeFailed is returned when the text-injection utility fails to type.
	ErrTypeFailed = ErrKeyboardError.New("type action failed")

	// ErrKeyFailed is returned when sending a named key fails.
	ErrKeyFailed = ErrKeyboardError.New("key action failed")

	// ErrLayoutFailed is returned when the keyboard layout cannot be set.
	ErrLayoutFailed = ErrKeyboardError.New("unable to set keyboard layout")
)
