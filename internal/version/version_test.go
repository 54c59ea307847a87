package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// The rendered string carries color escapes; the digits must still
	// be present.
	for _, part := range []string{"0", "1", "-dev"} {
		if !strings.Contains(Version, part) {
			t.Errorf("Version %q missing %q", Version, part)
		}
	}
}

func TestBuildMetadataOverridable(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	t.Cleanup(func() {
		GitCommit, BuildDate = origCommit, origDate
	})

	GitCommit = "abc123def456"
	BuildDate = "2026-01-15T10:30:00Z"
	if GitCommit != "abc123def456" || BuildDate != "2026-01-15T10:30:00Z" {
		t.Errorf("override failed: %q %q", GitCommit, BuildDate)
	}
}
