package pipeline

import "errors"

// ErrInvalidURL is returned by CheckSite when the target is not an absolute
// http or https URL. No request is made in that case.
var ErrInvalidURL = errors.New("invalid URL: expected an absolute http or https URL")
