// Package errors provides standardized error handling for the launcher.
// It implements structured error types with proper wrapping and classification
// following Go 1.20+ error handling best practices.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// Catalog-related errors
	ErrManifestUnavailable = errors.New("version manifest unavailable")
	ErrVersionNotFound     = errors.New("version not found")
	ErrInvalidVersionID    = errors.New("invalid version id")

	// Java toolchain errors
	ErrJavaNotFound       = errors.New("java executable not found")
	ErrNoJavaReleases     = errors.New("no java releases available")
	ErrDownloadInProgress = errors.New("a download is already in progress")
	ErrDownloadFailed     = errors.New("download failed")
	ErrChecksumMismatch   = errors.New("checksum mismatch")

	// Mod-loader errors
	ErrLoaderNotSupported = errors.New("unsupported mod loader")
	ErrLoaderInstall      = errors.New("mod loader installation failed")

	// Launch errors
	ErrNoIdentity        = errors.New("no authenticated identity")
	ErrNoVersionSelected = errors.New("no version selected")
	ErrLaunchFailed      = errors.New("game launch failed")
	ErrAlreadyRunning    = errors.New("game is already running")

	// System-related errors
	ErrTimeout             = errors.New("operation timed out")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrFilesystemFailed    = errors.New("filesystem operation failed")
)

// CatalogError represents an error from a version catalog operation
type CatalogError struct {
	Operation string
	Err       error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("catalog: operation %s: %v", e.Operation, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// ToolchainError represents an error from a Java toolchain operation
type ToolchainError struct {
	Toolchain string
	Operation string
	Err       error
}

func (e *ToolchainError) Error() string {
	return fmt.Sprintf("toolchain %s: operation %s: %v", e.Toolchain, e.Operation, e.Err)
}

func (e *ToolchainError) Unwrap() error {
	return e.Err
}

// LoaderError represents an error from a mod-loader installation
type LoaderError struct {
	Loader    string
	Version   string
	Operation string
	Err       error
}

func (e *LoaderError) Error() string {
	return fmt.Sprintf("loader %s/%s: operation %s: %v", e.Loader, e.Version, e.Operation, e.Err)
}

func (e *LoaderError) Unwrap() error {
	return e.Err
}

// LaunchError represents an error from a game launch attempt
type LaunchError struct {
	VersionID string
	Operation string
	Err       error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: operation %s: %v", e.VersionID, e.Operation, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// FilesystemError represents an error related to filesystem operations
type FilesystemError struct {
	Path      string
	Operation string
	Err       error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("filesystem %s: operation %s: %v", e.Path, e.Operation, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// ConfigError represents an error related to configuration
type ConfigError struct {
	Component string
	Field     string
	Err       error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config %s.%s: %v", e.Component, e.Field, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Component, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Error wrapping constructors
func WrapCatalogError(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CatalogError{Operation: operation, Err: err}
}

func WrapToolchainError(toolchain, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &ToolchainError{Toolchain: toolchain, Operation: operation, Err: err}
}

func WrapLoaderError(loader, version, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &LoaderError{Loader: loader, Version: version, Operation: operation, Err: err}
}

func WrapLaunchError(versionID, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &LaunchError{VersionID: versionID, Operation: operation, Err: err}
}

func WrapFilesystemError(path, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &FilesystemError{Path: path, Operation: operation, Err: err}
}

func WrapConfigError(component, field string, err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Component: component, Field: field, Err: err}
}

// Error classification functions
func IsCatalogError(err error) bool {
	var ce *CatalogError
	return errors.As(err, &ce)
}

func IsToolchainError(err error) bool {
	var te *ToolchainError
	return errors.As(err, &te)
}

func IsLoaderError(err error) bool {
	var le *LoaderError
	return errors.As(err, &le)
}

func IsLaunchError(err error) bool {
	var le *LaunchError
	return errors.As(err, &le)
}

func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Specific error type checks
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrVersionNotFound) ||
		errors.Is(err, ErrJavaNotFound)
}

func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsPreconditionError reports whether err is a launch precondition failure,
// which must never reach the backend as a request.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrNoIdentity) || errors.Is(err, ErrNoVersionSelected)
}

// IsRetryable reports whether the failed operation may be retried by a new
// user action without any local cleanup.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrManifestUnavailable) ||
		errors.Is(err, ErrDownloadFailed) ||
		errors.Is(err, ErrChecksumMismatch) ||
		errors.Is(err, ErrNoJavaReleases) ||
		IsTimeoutError(err)
}

// Convenience functions for common error patterns
func NewVersionNotFoundError(versionID string) error {
	return WrapCatalogError("lookup", fmt.Errorf("%w: %s", ErrVersionNotFound, versionID))
}

func NewFilesystemError(path, operation string, err error) error {
	return WrapFilesystemError(path, operation, fmt.Errorf("%w: %v", ErrFilesystemFailed, err))
}

func NewConfigError(component, field string, err error) error {
	return WrapConfigError(component, field, fmt.Errorf("%w: %v", ErrInvalidConfig, err))
}

// Context-aware error handling
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// JoinErrors combines multiple errors into a single error
func JoinErrors(errs ...error) error {
	var validErrs []error
	for _, err := range errs {
		if err != nil {
			validErrs = append(validErrs, err)
		}
	}

	if len(validErrs) == 0 {
		return nil
	}
	if len(validErrs) == 1 {
		return validErrs[0]
	}

	return &multiError{errors: validErrs}
}

// multiError represents multiple errors
type multiError struct {
	errors []error
}

func (e *multiError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}
	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	msg := e.errors[0].Error()
	for _, err := range e.errors[1:] {
		msg += "; " + err.Error()
	}
	return msg
}

func (e *multiError) Unwrap() []error {
	return e.errors
}

// Is implements error comparison for multiError
func (e *multiError) Is(target error) bool {
	for _, err := range e.errors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// As implements error conversion for multiError
func (e *multiError) As(target interface{}) bool {
	for _, err := range e.errors {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}
