package domain

import "testing"

func TestBaseVersion(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"fabric-loader-0.15.7-1.20.4", "1.20.4"},
		{"fabric-loader-0.16.0-1.21", "1.21"},
		{"1.20.4-forge-49.0.38", "1.20.4"},
		{"1.12.2-forge-14.23.5.2860", "1.12.2"},
		{"1.20.4", "1.20.4"},
		{"24w14a", "24w14a"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := BaseVersion(tt.id); got != tt.want {
				t.Errorf("BaseVersion(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestLoaderType(t *testing.T) {
	tests := []struct {
		id   string
		want VersionType
	}{
		{"fabric-loader-0.15.7-1.20.4", TypeFabric},
		{"1.20.4-forge-49.0.38", TypeForge},
		{"1.20.4", TypeRelease},
		{"24w14a", TypeRelease},
	}

	for _, tt := range tests {
		if got := LoaderType(tt.id); got != tt.want {
			t.Errorf("LoaderType(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestVersion_IsLoader(t *testing.T) {
	v := Version{ID: "fabric-loader-0.15.7-1.20.4", Type: TypeFabric}
	if !v.IsLoader() {
		t.Error("fabric entry should be a loader")
	}

	v = Version{ID: "1.20.4", Type: TypeRelease}
	if v.IsLoader() {
		t.Error("release entry should not be a loader")
	}
}

func TestJavaImageType_Valid(t *testing.T) {
	if !ImageJRE.Valid() || !ImageJDK.Valid() {
		t.Error("jre and jdk must be valid image types")
	}
	if JavaImageType("sdk").Valid() {
		t.Error("unknown image type must be invalid")
	}
}

func TestIdentity_Valid(t *testing.T) {
	var nilIdentity *Identity
	if nilIdentity.Valid() {
		t.Error("nil identity must be invalid")
	}

	id := &Identity{UUID: "069a79f4-44e9-4726-a5be-fca90e38aaf5", Name: "Notch"}
	if !id.Valid() {
		t.Error("identity with uuid and name must be valid")
	}

	if (&Identity{Name: "Notch"}).Valid() {
		t.Error("identity without uuid must be invalid")
	}
}
