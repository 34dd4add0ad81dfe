// Package version resolves a package version from layered sources with a
// defined precedence: tag description, version file, commit hash, and a
// timestamp seed for dirty working trees. Resolution never fails; when every
// source comes up empty the result is absent.
package version

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rymut/recipetool/internal/scm"
	"github.com/rymut/recipetool/internal/semver"
)

// VersionFileName is the fixed name of the version file read from the recipe
// directory when no valid tag describes the current commit.
const VersionFileName = "version.semver"

const dirtyTimestampLayout = "20060102T150405"

// Source identifies which layered source produced a resolved version.
type Source string

const (
	SourceNone             Source = "none"
	SourceDirtyWorkingTree Source = "dirty"
	SourceTagDescribe      Source = "tag"
	SourceVersionFile      Source = "file"
	SourceCommitHash       Source = "commit"
)

// Queries are the read-only source-control operations resolution consumes.
// *scm.Repository implements them.
type Queries interface {
	IsDirty() (bool, error)
	Describe() (string, error)
	Head() (string, error)
}

// Resolved is a version string together with the source that produced it.
type Resolved struct {
	Value  string `json:"version"`
	Source Source `json:"source"`
}

// Options configure a resolution run.
type Options struct {
	// SCM answers the source-control queries. May be nil when no repository
	// is available; every source-control tier then produces nothing.
	SCM Queries

	// Dir is the recipe directory holding the version file.
	Dir string

	// Now is the clock used for the dirty-tree timestamp. Defaults to
	// time.Now.
	Now func() time.Time
}

// Resolve determines the package version from the configured sources, in
// order: a semver tag describing the current commit, the version file, the
// commit hash, and last the dirty-tree timestamp seed. The first source that
// yields a usable value wins. Every query failure is swallowed and treated as
// "this source produced nothing".
//
// The returned bool is false when no source produced a value; that is a
// valid terminal state, not an error.
func Resolve(opts Options) (Resolved, bool) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	// The dirty-tree timestamp is only a seed: it becomes the result when
	// every later source fails, it never shadows one that succeeds.
	var seed *Resolved
	if opts.SCM != nil {
		dirty, err := opts.SCM.IsDirty()
		switch {
		case err != nil:
			slog.Debug("dirty check failed", "error", err)
		case dirty:
			seed = &Resolved{
				Value:  "cci_" + now().UTC().Format(dirtyTimestampLayout),
				Source: SourceDirtyWorkingTree,
			}
		}
	}

	for _, source := range []func(Options) (Resolved, bool){
		tagVersion,
		fileVersion,
		commitVersion,
	} {
		if resolved, ok := source(opts); ok {
			return resolved, true
		}
	}
	if seed != nil {
		return *seed, true
	}
	return Resolved{Source: SourceNone}, false
}

// ResolveDir resolves the version of the working copy at dir, treating a
// missing or unreadable repository as "source control unavailable".
func ResolveDir(dir string) (Resolved, bool) {
	var queries Queries
	if repo, err := scm.Open(dir); err == nil {
		queries = repo
	} else {
		slog.Debug("source control unavailable", "path", dir, "error", err)
	}
	return Resolve(Options{SCM: queries, Dir: dir})
}

// tagVersion accepts the describe result when, after stripping a leading
// "v", it satisfies the strict semver grammar. A describe output with a
// distance suffix like "1.2.3-4-gabc1234" still parses (the suffix is a legal
// prerelease identifier) and is accepted as-is.
func tagVersion(opts Options) (Resolved, bool) {
	if opts.SCM == nil {
		return Resolved{}, false
	}
	tag, err := opts.SCM.Describe()
	if err != nil {
		slog.Debug("tag describe failed", "error", err)
		return Resolved{}, false
	}
	tag = strings.TrimSpace(tag)
	tag = strings.TrimSpace(strings.TrimPrefix(tag, "v"))
	if !semver.Valid(tag) {
		slog.Debug("describe result is not a semantic version", "tag", tag)
		return Resolved{}, false
	}
	return Resolved{Value: tag, Source: SourceTagDescribe}, true
}

func fileVersion(opts Options) (Resolved, bool) {
	data, err := os.ReadFile(filepath.Join(opts.Dir, VersionFileName))
	if err != nil {
		slog.Debug("version file not readable", "error", err)
		return Resolved{}, false
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		slog.Debug("version file is empty", "file", VersionFileName)
		return Resolved{}, false
	}
	return Resolved{Value: value, Source: SourceVersionFile}, true
}

func commitVersion(opts Options) (Resolved, bool) {
	if opts.SCM == nil {
		return Resolved{}, false
	}
	commit, err := opts.SCM.Head()
	if err != nil {
		slog.Debug("commit lookup failed", "error", err)
		return Resolved{}, false
	}
	return Resolved{Value: "rev_" + strings.TrimSpace(commit), Source: SourceCommitHash}, true
}
