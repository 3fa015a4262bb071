package version

import (
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, commit, branch, buildTime string) {
	t.Helper()
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime = origVersion, origCommit, origBranch, origBuildTime
	})
	Version, GitCommit, GitBranch, BuildTime = version, commit, branch, buildTime
}

func TestGet_LinkerValues(t *testing.T) {
	withBuild(t, "1.2.0", "abc1234", "main", "2025-03-10T08:00:00Z")

	info := Get()
	if info.Version != "1.2.0" || info.GitCommit != "abc1234" {
		t.Errorf("got %+v", info)
	}
	if info.BuildDate.Year() != 2025 {
		t.Errorf("BuildDate = %v", info.BuildDate)
	}
	if info.GoVersion == "" {
		t.Error("GoVersion should come from build info")
	}
}

func TestGet_TruncatesCommit(t *testing.T) {
	withBuild(t, "1.2.0", "0123456789abcdef", "", "")
	if got := Get().GitCommit; got != "0123456" {
		t.Errorf("GitCommit = %q", got)
	}
}

func TestInfo_IsRelease(t *testing.T) {
	tests := []struct {
		info Info
		want bool
	}{
		{Info{Version: "dev"}, false},
		{Info{Version: "1.0.0"}, true},
		{Info{Version: "1.0.0-dirty"}, false},
		{Info{Version: "1.0.0", Dirty: true}, false},
	}
	for _, tt := range tests {
		if got := tt.info.IsRelease(); got != tt.want {
			t.Errorf("%+v.IsRelease() = %v, want %v", tt.info, got, tt.want)
		}
	}
}

func TestInfo_Short(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"version only", Info{Version: "dev"}, "dev"},
		{"with commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
		{"dirty without commit", Info{Version: "1.0.0", Dirty: true}, "1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	withBuild(t, "1.0.0", "abc1234", "feature/agent", "2025-01-15T10:30:00Z")

	fv := Full()
	for _, want := range []string{"1.0.0", "abc1234", "feature/agent", "built 2025-01-15T10:30:00Z"} {
		if !strings.Contains(fv, want) {
			t.Errorf("Full() = %q, missing %q", fv, want)
		}
	}

	withBuild(t, "1.0.0", "abc1234", "main", "2025-01-15T10:30:00Z")
	if fv := Full(); strings.Contains(fv, "main") {
		t.Errorf("default branch should be omitted: %q", fv)
	}
}

func TestUserAgent(t *testing.T) {
	withBuild(t, "2.0.0", "abc1234", "", "")
	ua := UserAgent()
	if !strings.HasPrefix(ua, "requester/2.0.0-abc1234") {
		t.Errorf("UserAgent() = %q", ua)
	}
}
