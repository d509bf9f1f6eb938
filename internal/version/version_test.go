package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	v, c := Version, Commit
	t.Cleanup(func() { Version, Commit = v, c })
}

func TestFromSettings(t *testing.T) {
	tests := []struct {
		name        string
		settings    []debug.BuildSetting
		wantVersion string
		wantCommit  string
	}{
		{
			name: "clean checkout",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
				{Key: "vcs.modified", Value: "false"},
			},
			wantVersion: "dev-20260314",
			wantCommit:  "0123456",
		},
		{
			name: "dirty tree",
			settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "abc"},
				{Key: "vcs.modified", Value: "true"},
			},
			wantCommit: "abc-dirty",
		},
		{
			name:     "no vcs stamp",
			settings: []debug.BuildSetting{{Key: "GOOS", Value: "linux"}},
		},
		{
			name:     "unparseable time",
			settings: []debug.BuildSetting{{Key: "vcs.time", Value: "yesterday"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)
			Version, Commit = "", ""

			fromSettings(tt.settings)
			require.Equal(t, tt.wantVersion, Version)
			require.Equal(t, tt.wantCommit, Commit)
		})
	}
}

func TestFromSettings_KeepsLdflags(t *testing.T) {
	restore(t)
	Version, Commit = "v1.0.0", "feedbee"

	fromSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2026-03-14T09:26:53Z"},
	})
	require.Equal(t, "v1.0.0", Version)
	require.Equal(t, "feedbee", Commit)
}

func TestGetAndFull(t *testing.T) {
	restore(t)
	Version, Commit = "v0.3.0", "abc1234"

	info := Get()
	require.Equal(t, "v0.3.0", info.Version)
	require.Equal(t, "abc1234", info.Commit)
	require.Equal(t, runtime.Version(), info.GoVersion)
	require.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	require.Equal(t, "v0.3.0 (commit: abc1234)", Full())
}
