package version

import (
	"runtime/debug"
	"testing"
)

func withBuild(t *testing.T, version, commit, buildTime string, bi *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origBuildTime, origRead := Version, GitCommit, BuildTime, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime, readBuildInfo = origVersion, origCommit, origBuildTime, origRead
	})
	Version, GitCommit, BuildTime = version, commit, buildTime
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
}

func TestGetDefaults(t *testing.T) {
	withBuild(t, "dev", "", "", nil)

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease() {
		t.Error("dev should not be a release")
	}
	if info.String() != "dev" {
		t.Errorf("expected 'dev', got %q", info.String())
	}
}

func TestGetFromBuildInfo(t *testing.T) {
	withBuild(t, "1.2.0", "", "", &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-15T10:30:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Get()
	if info.GitCommit != "0123456" {
		t.Errorf("expected truncated commit, got %q", info.GitCommit)
	}
	if info.BuildTime != "2026-01-15T10:30:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
	if info.GoVersion != "go1.26.0" {
		t.Errorf("unexpected go version %q", info.GoVersion)
	}
	if !info.Dirty || info.IsRelease() {
		t.Error("modified tree should be dirty and not a release")
	}
	if got := info.String(); got != "1.2.0-0123456-dirty" {
		t.Errorf("expected '1.2.0-0123456-dirty', got %q", got)
	}
}

func TestLinkTimeValuesWin(t *testing.T) {
	withBuild(t, "1.0.0", "abc1234", "2024-01-01T00:00:00Z", &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffff"},
			{Key: "vcs.time", Value: "2026-01-01T00:00:00Z"},
		},
	})

	info := Get()
	if info.GitCommit != "abc1234" {
		t.Errorf("expected link-time commit, got %q", info.GitCommit)
	}
	if info.BuildTime != "2024-01-01T00:00:00Z" {
		t.Errorf("expected link-time build time, got %q", info.BuildTime)
	}
	if !info.IsRelease() {
		t.Error("clean tagged build should be a release")
	}
	if String() != "1.0.0-abc1234" {
		t.Errorf("expected '1.0.0-abc1234', got %q", String())
	}
}
