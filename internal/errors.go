package internal

import "fmt"

// SettingsError represents errors loading or persisting the settings document
type SettingsError struct {
	Path string
	Op   string // "open", "parse", "write"
	Err  error
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("settings error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SettingsError) Unwrap() error {
	return e.Err
}

// RebuildError represents a fault during a shadow-view rebuild pass. It is
// caught and logged at the scheduler boundary, never propagated to the host.
type RebuildError struct {
	Step string
	Err  error
}

func (e *RebuildError) Error() string {
	return fmt.Sprintf("rebuild error [%s]: %v", e.Step, e.Err)
}

func (e *RebuildError) Unwrap() error {
	return e.Err
}
