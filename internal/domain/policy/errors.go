package policy

import "errors"

var (
	// ErrSettingsNotFound means no HR policy record exists. Payroll
	// calculation refuses to run without one: salary and calendar defaults
	// are safe to assume, statutory rates are not.
	ErrSettingsNotFound = errors.New("hr policy settings not found")
)
