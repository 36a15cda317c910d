package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: ", "commit: ", "built: ", "go: " + runtime.Version()} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version "+Get().Version) {
		t.Errorf("Template() = %q", Template())
	}
}

func TestFill(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2025-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "unstamped",
			in:   Info{Version: "dev", Commit: "none", Date: "unknown"},
			want: Info{Version: "v1.4.0", Commit: "abc123", Date: "2025-01-02T03:04:05Z"},
		},
		{
			name: "ldflags win",
			in:   Info{Version: "v2.0.0", Commit: "fff", Date: "today"},
			want: Info{Version: "v2.0.0", Commit: "fff", Date: "today"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fill(tt.in, bi); got != tt.want {
				t.Errorf("fill() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFillDevelVersion(t *testing.T) {
	bi := &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}
	if got := fill(Info{Version: "dev"}, bi); got.Version != "dev" {
		t.Errorf("Version = %q, want dev", got.Version)
	}
}
