package budget

import "errors"

// ErrUnknownPreset is returned when a preset ID is not one of the three
// built-in scenarios.
var ErrUnknownPreset = errors.New("unknown budget preset")
