package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCatalogError(t *testing.T) {
	base := errors.New("connection refused")
	err := WrapCatalogError("refresh", base)

	if err == nil {
		t.Fatal("WrapCatalogError returned nil for non-nil error")
	}
	if !IsCatalogError(err) {
		t.Error("IsCatalogError = false for wrapped catalog error")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error lost its cause")
	}

	want := "catalog: operation refresh: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"catalog", WrapCatalogError("refresh", nil)},
		{"toolchain", WrapToolchainError("temurin-21", "download", nil)},
		{"loader", WrapLoaderError("fabric", "0.15.7", "install", nil)},
		{"launch", WrapLaunchError("1.20.4", "start", nil)},
		{"filesystem", WrapFilesystemError("/tmp/x", "mkdir", nil)},
		{"config", WrapConfigError("launcher", "memory", nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err != nil {
				t.Errorf("wrapping nil should return nil, got %v", tt.err)
			}
		})
	}
}

func TestToolchainError_Unwrap(t *testing.T) {
	err := WrapToolchainError("temurin-21", "download", ErrChecksumMismatch)

	if !errors.Is(err, ErrChecksumMismatch) {
		t.Error("errors.Is failed to find sentinel through ToolchainError")
	}

	var te *ToolchainError
	if !errors.As(err, &te) {
		t.Fatal("errors.As failed for ToolchainError")
	}
	if te.Toolchain != "temurin-21" {
		t.Errorf("Toolchain = %q, want %q", te.Toolchain, "temurin-21")
	}
}

func TestLoaderError_Message(t *testing.T) {
	err := WrapLoaderError("forge", "49.0.38", "install", ErrLoaderInstall)
	want := "loader forge/49.0.38: operation install: mod loader installation failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsPreconditionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"no identity", ErrNoIdentity, true},
		{"no version", ErrNoVersionSelected, true},
		{"wrapped no identity", WrapLaunchError("", "precheck", ErrNoIdentity), true},
		{"launch failure", ErrLaunchFailed, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPreconditionError(tt.err); got != tt.expected {
				t.Errorf("IsPreconditionError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"manifest unavailable", ErrManifestUnavailable, true},
		{"download failed", fmt.Errorf("adoptium: %w", ErrDownloadFailed), true},
		{"checksum mismatch", ErrChecksumMismatch, true},
		{"deadline", context.DeadlineExceeded, true},
		{"invalid config", ErrInvalidConfig, false},
		{"no identity", ErrNoIdentity, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.expected {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	if !IsNotFoundError(NewVersionNotFoundError("1.99.0")) {
		t.Error("IsNotFoundError = false for version-not-found")
	}
	if !IsNotFoundError(fmt.Errorf("detect: %w", ErrJavaNotFound)) {
		t.Error("IsNotFoundError = false for java-not-found")
	}
	if IsNotFoundError(ErrLaunchFailed) {
		t.Error("IsNotFoundError = true for launch failure")
	}
}

func TestJoinErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	if JoinErrors() != nil {
		t.Error("JoinErrors() with no args should be nil")
	}
	if JoinErrors(nil, nil) != nil {
		t.Error("JoinErrors(nil, nil) should be nil")
	}
	if got := JoinErrors(e1); got != e1 {
		t.Errorf("JoinErrors with one error should return it unchanged, got %v", got)
	}

	joined := JoinErrors(e1, nil, e2)
	if joined == nil {
		t.Fatal("JoinErrors returned nil for two errors")
	}
	if !errors.Is(joined, e1) || !errors.Is(joined, e2) {
		t.Error("joined error should match both members via errors.Is")
	}
	want := "first; second"
	if joined.Error() != want {
		t.Errorf("joined.Error() = %q, want %q", joined.Error(), want)
	}
}

func TestMultiError_As(t *testing.T) {
	inner := WrapCatalogError("refresh", ErrManifestUnavailable)
	joined := JoinErrors(errors.New("other"), inner)

	var ce *CatalogError
	if !errors.As(joined, &ce) {
		t.Fatal("errors.As failed to find CatalogError inside joined error")
	}
	if ce.Operation != "refresh" {
		t.Errorf("Operation = %q, want refresh", ce.Operation)
	}
}
