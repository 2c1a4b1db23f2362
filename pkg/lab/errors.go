package lab

import "errors"

// ErrAutoplayActive is returned by the distance and focal length setters
// while a run owns the object distance.
var ErrAutoplayActive = errors.New("lab: autoplay is running")
