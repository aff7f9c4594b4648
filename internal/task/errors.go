package task

import "errors"

// ErrInvalidSchedule reports schedule input that cannot describe a trigger:
// an unknown frequency, a malformed time or date, or weekday names outside
// the seven-day set. Wrapped errors carry the offending input.
var ErrInvalidSchedule = errors.New("invalid schedule")
