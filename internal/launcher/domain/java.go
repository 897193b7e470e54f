package domain

// JavaInstallation describes a Java runtime found by detection or
// recorded after a completed download. Immutable once recorded; a
// re-detection records a new generation instead of mutating rows.
type JavaInstallation struct {
	Path         string // Filesystem location of the java executable
	Version      string // Full version string, e.g. "21.0.2"
	MajorVersion int    // Major release number, e.g. 21
	Vendor       string // Origin tag: "system", "sdkman", "adoptium", ...
}

// JavaImageType selects between a runtime-only and a full development image
type JavaImageType string

const (
	ImageJRE JavaImageType = "jre"
	ImageJDK JavaImageType = "jdk"
)

// Valid reports whether the image type is one of the supported values
func (t JavaImageType) Valid() bool {
	return t == ImageJRE || t == ImageJDK
}

// JavaDownloadInfo is a transient request descriptor for a runtime download
type JavaDownloadInfo struct {
	MajorVersion int
	ImageType    JavaImageType
}
