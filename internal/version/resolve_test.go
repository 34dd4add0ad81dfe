package version

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueries implements Queries for testing and records which queries ran.
type fakeQueries struct {
	dirty    bool
	dirtyErr error

	describe    string
	describeErr error

	head    string
	headErr error

	describeCalls int
	headCalls     int
}

func (f *fakeQueries) IsDirty() (bool, error) {
	return f.dirty, f.dirtyErr
}

func (f *fakeQueries) Describe() (string, error) {
	f.describeCalls++
	return f.describe, f.describeErr
}

func (f *fakeQueries) Head() (string, error) {
	f.headCalls++
	return f.head, f.headErr
}

func writeVersionFile(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFileName), []byte(content), 0o644))
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
}

func TestResolveTagWins(t *testing.T) {
	scm := &fakeQueries{describe: "v1.2.3", head: "deadbeef"}
	dir := t.TempDir()
	writeVersionFile(t, dir, "9.9.9\n")

	resolved, ok := Resolve(Options{SCM: scm, Dir: dir})
	require.True(t, ok)
	assert.Equal(t, "1.2.3", resolved.Value)
	assert.Equal(t, SourceTagDescribe, resolved.Source)
	assert.Zero(t, scm.headCalls, "commit hash must not be consulted after a tag match")
}

func TestResolveTagWithDescribeSuffix(t *testing.T) {
	// A distance suffix is a legal prerelease identifier, so the full
	// describe output is accepted verbatim.
	scm := &fakeQueries{describe: "v1.2.3-4-gabc1234\n"}

	resolved, ok := Resolve(Options{SCM: scm, Dir: t.TempDir()})
	require.True(t, ok)
	assert.Equal(t, "1.2.3-4-gabc1234", resolved.Value)
	assert.Equal(t, SourceTagDescribe, resolved.Source)
}

func TestResolveNonSemverTagFallsToVersionFile(t *testing.T) {
	scm := &fakeQueries{describe: "release-7", head: "deadbeef"}
	dir := t.TempDir()
	writeVersionFile(t, dir, "2.0.0-rc.1\n")

	resolved, ok := Resolve(Options{SCM: scm, Dir: dir})
	require.True(t, ok)
	assert.Equal(t, "2.0.0-rc.1", resolved.Value)
	assert.Equal(t, SourceVersionFile, resolved.Source)
	assert.Zero(t, scm.headCalls)
}

func TestResolveCommitHashFallback(t *testing.T) {
	scm := &fakeQueries{
		describeErr: errors.New("no tags can describe"),
		head:        "abc123def456\n",
	}

	resolved, ok := Resolve(Options{SCM: scm, Dir: t.TempDir()})
	require.True(t, ok)
	assert.Equal(t, "rev_abc123def456", resolved.Value)
	assert.Equal(t, SourceCommitHash, resolved.Source)
}

func TestResolveAbsentWithoutSourceControl(t *testing.T) {
	resolved, ok := Resolve(Options{SCM: nil, Dir: t.TempDir()})
	assert.False(t, ok)
	assert.Equal(t, Resolved{Source: SourceNone}, resolved)
}

func TestResolveEmptyVersionFileFallsThrough(t *testing.T) {
	scm := &fakeQueries{
		describeErr: errors.New("no tags"),
		head:        "deadbeef",
	}
	dir := t.TempDir()
	writeVersionFile(t, dir, "  \n")

	resolved, ok := Resolve(Options{SCM: scm, Dir: dir})
	require.True(t, ok)
	assert.Equal(t, "rev_deadbeef", resolved.Value)
	assert.Equal(t, SourceCommitHash, resolved.Source)
}

func TestResolveDirtySeedUsedWhenAllSourcesFail(t *testing.T) {
	scm := &fakeQueries{
		dirty:       true,
		describeErr: errors.New("no tags"),
		headErr:     errors.New("no HEAD"),
	}

	resolved, ok := Resolve(Options{SCM: scm, Dir: t.TempDir(), Now: fixedClock})
	require.True(t, ok)
	assert.Equal(t, "cci_20240115T093000", resolved.Value)
	assert.Equal(t, SourceDirtyWorkingTree, resolved.Source)
}

func TestResolveDirtyDoesNotShadowTag(t *testing.T) {
	scm := &fakeQueries{dirty: true, describe: "v1.2.3"}

	resolved, ok := Resolve(Options{SCM: scm, Dir: t.TempDir(), Now: fixedClock})
	require.True(t, ok)
	assert.Equal(t, "1.2.3", resolved.Value)
	assert.Equal(t, SourceTagDescribe, resolved.Source)
}

func TestResolveDirtyCheckErrorIsSwallowed(t *testing.T) {
	scm := &fakeQueries{
		dirtyErr: errors.New("bare repository"),
		describe: "v0.1.0",
	}

	resolved, ok := Resolve(Options{SCM: scm, Dir: t.TempDir()})
	require.True(t, ok)
	assert.Equal(t, "0.1.0", resolved.Value)
}

func TestResolveIdempotent(t *testing.T) {
	scm := &fakeQueries{describe: "release-7", head: "deadbeef"}
	dir := t.TempDir()
	writeVersionFile(t, dir, "2.0.0\n")
	opts := Options{SCM: scm, Dir: dir, Now: fixedClock}

	first, okFirst := Resolve(opts)
	second, okSecond := Resolve(opts)
	assert.Equal(t, okFirst, okSecond)
	assert.Equal(t, first, second)
}

func TestResolveDirUnversionedDirectory(t *testing.T) {
	resolved, ok := ResolveDir(t.TempDir())
	assert.False(t, ok)
	assert.Equal(t, SourceNone, resolved.Source)
}
