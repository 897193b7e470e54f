package platform

import "runtime"

// NewPlatform creates the platform implementation for the current host
func NewPlatform() Platform {
	return &BasePlatform{}
}

// GetInfo returns information about the current platform
func GetInfo() Info {
	return Info{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}
}
