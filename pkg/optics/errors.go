package optics

import "errors"

// ErrUnknownLensType is returned by ParseLensType for unrecognized names.
var ErrUnknownLensType = errors.New("optics: unknown lens type")
