package update

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
)

const repo = "stefanclaw/todosearch"

// Result holds the outcome of an update check or apply.
type Result struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	Applied         bool
}

// IsReleaseBuild reports whether version names a release rather than a
// local development build.
func IsReleaseBuild(version string) bool {
	return version != "" && version != "dev"
}

// IsNewer reports whether latest should replace current. A current
// version that is not valid semver (e.g. "dev") is always older; an
// invalid latest version never wins.
func IsNewer(latest, current string) bool {
	lv, err := semver.NewVersion(latest)
	if err != nil {
		return false
	}
	cv, err := semver.NewVersion(current)
	if err != nil {
		return true
	}
	return lv.GreaterThan(cv)
}

func detectLatest(ctx context.Context) (*selfupdate.Updater, *selfupdate.Release, bool, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, nil, false, fmt.Errorf("creating github source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
	})
	if err != nil {
		return nil, nil, false, fmt.Errorf("creating updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return nil, nil, false, fmt.Errorf("checking for updates: %w", err)
	}
	return updater, latest, found, nil
}

// Check queries GitHub for the latest release and reports whether an
// update is available. It does not download or replace anything.
func Check(ctx context.Context, currentVersion string) (*Result, error) {
	_, latest, found, err := detectLatest(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{CurrentVersion: currentVersion}
	if found {
		res.LatestVersion = latest.Version()
		res.UpdateAvailable = IsNewer(latest.Version(), currentVersion)
	}
	return res, nil
}

// Apply downloads and installs the latest release, replacing the current
// binary in-place.
func Apply(ctx context.Context, currentVersion string) (*Result, error) {
	updater, latest, found, err := detectLatest(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{CurrentVersion: currentVersion}
	if !found {
		return res, nil
	}
	res.LatestVersion = latest.Version()
	if !IsNewer(latest.Version(), currentVersion) {
		return res, nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("finding executable path: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return nil, fmt.Errorf("applying update: %w", err)
	}

	res.UpdateAvailable = true
	res.Applied = true
	return res, nil
}
