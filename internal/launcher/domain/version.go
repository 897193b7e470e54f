package domain

import (
	"strings"
	"time"
)

// VersionType classifies a catalog entry
type VersionType string

const (
	TypeRelease  VersionType = "release"
	TypeSnapshot VersionType = "snapshot"
	TypeFabric   VersionType = "fabric"
	TypeForge    VersionType = "forge"
)

// Version represents a single playable game version. Vanilla entries come
// from the upstream manifest; loader entries are synthesized from installed
// loader directories and carry no release time.
type Version struct {
	ID          string      // Unique identifier, e.g. "1.20.4" or "fabric-loader-0.15.7-1.20.4"
	Type        VersionType // release, snapshot, fabric or forge
	ReleaseTime *time.Time  // Upstream publication time (nil for loader entries)
	URL         string      // Version metadata URL (manifest entries only)
	SHA1        string      // Metadata checksum (manifest entries only)
	Installed   bool        // Whether a local installation directory exists
}

// IsLoader returns true for synthesized mod-loader entries
func (v *Version) IsLoader() bool {
	return v.Type == TypeFabric || v.Type == TypeForge
}

// BaseVersion extracts the vanilla game version an id is built on.
// Fabric ids keep the game version as their trailing dash-separated
// segment; forge ids lead with it. Anything else is treated as a
// vanilla id and returned verbatim.
func BaseVersion(id string) string {
	if strings.HasPrefix(id, "fabric-loader-") {
		if idx := strings.LastIndex(id, "-"); idx >= 0 && idx < len(id)-1 {
			return id[idx+1:]
		}
	}
	if idx := strings.Index(id, "-forge-"); idx > 0 {
		return id[:idx]
	}
	return id
}

// LoaderType classifies an installed version id, returning the loader
// kind or TypeRelease for plain vanilla ids.
func LoaderType(id string) VersionType {
	switch {
	case strings.HasPrefix(id, "fabric-loader-"):
		return TypeFabric
	case strings.Contains(id, "-forge-"):
		return TypeForge
	default:
		return TypeRelease
	}
}
