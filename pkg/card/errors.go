package card

import "errors"

var (
	// ErrUnknownNode is returned when a NodeID does not address a live node.
	ErrUnknownNode = errors.New("unknown card node")

	// ErrNotObject is returned when an object-only operation targets another type.
	ErrNotObject = errors.New("card is not an object")

	// ErrMalformedText is returned when an object card's text view is not a JSON object.
	ErrMalformedText = errors.New("malformed JSON text")

	// ErrNoChooser is returned when a key is added by prompt but no type chooser is wired.
	ErrNoChooser = errors.New("no type chooser configured")

	// ErrChoiceCancelled is returned by a TypeChooser when the user dismissed the dialog.
	ErrChoiceCancelled = errors.New("type choice cancelled")
)
