package segmentation

import "errors"

var (
	// ErrInvalidInput marks a raw feature outside its documented domain. Recoverable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateScaler marks a bundle whose stored standard deviation is zero.
	ErrDegenerateScaler = errors.New("degenerate scaler")

	// ErrBundleIntegrity marks a structurally broken bundle, e.g. a centroid without a name.
	ErrBundleIntegrity = errors.New("bundle integrity error")

	// ErrSegmentNotFound marks a catalogue lookup for a label the bundle does not define.
	ErrSegmentNotFound = errors.New("segment not found")
)

// IsFatal reports whether err means the bundle itself is unusable.
func IsFatal(err error) bool {
	return errors.Is(err, ErrDegenerateScaler) || errors.Is(err, ErrBundleIntegrity)
}
