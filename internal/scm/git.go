// Package scm exposes the read-only source-control queries version
// resolution needs: working-tree dirtiness, nearest-tag description and the
// current commit identifier.
package scm

import (
	"errors"
	"fmt"
	"strings"

	mmsemver "github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Repository wraps a git working copy.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path, walking up the directory tree
// to find the .git directory like the git CLI does.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %q failed: %w", path, err)
	}
	return &Repository{repo: repo}, nil
}

// IsDirty reports whether the working tree has uncommitted modifications.
// Untracked files count as modifications.
func (r *Repository) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree failed: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting worktree status failed: %w", err)
	}
	return !status.IsClean(), nil
}

// Head returns the full hash of the current commit.
func (r *Repository) Head() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD failed: %w", err)
	}
	return head.Hash().String(), nil
}

type tagCandidate struct {
	name      string
	annotated bool
}

// Describe names the current commit relative to the nearest reachable tag.
// When HEAD is tagged the bare tag name is returned, otherwise
// "<tag>-<distance>-g<short-hash>". It fails when no tag is reachable.
//
// Annotated tags take precedence over lightweight ones; among several tags on
// the same commit the semver-greatest (falling back to the lexicographically
// greatest) name wins, so repeated calls on an unchanged working copy return
// the same result.
func (r *Repository) Describe() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD failed: %w", err)
	}

	tags, err := r.tagsByCommit()
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("no tags can describe %s", head.Hash())
	}

	if tag, ok := tags[head.Hash()]; ok {
		return tag.name, nil
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("loading HEAD commit failed: %w", err)
	}

	var found *tagCandidate
	distance := 0
	iter := object.NewCommitPreorderIter(commit, nil, nil)
	err = iter.ForEach(func(c *object.Commit) error {
		if tag, ok := tags[c.Hash]; ok {
			found = &tag
			return storer.ErrStop
		}
		distance++
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return "", fmt.Errorf("walking history failed: %w", err)
	}
	if found == nil {
		return "", fmt.Errorf("no tags can describe %s", head.Hash())
	}
	return fmt.Sprintf("%s-%d-g%s", found.name, distance, head.Hash().String()[:7]), nil
}

// tagsByCommit maps each tagged commit to its best tag, peeling annotated
// tags to the commit they point at.
func (r *Repository) tagsByCommit() (map[plumbing.Hash]tagCandidate, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags failed: %w", err)
	}

	tags := make(map[plumbing.Hash]tagCandidate)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		candidate := tagCandidate{name: ref.Name().Short()}
		target := ref.Hash()
		if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
			candidate.annotated = true
			commit, err := tagObj.Commit()
			if err != nil {
				// Tag points at a tree or blob, useless for describe.
				return nil
			}
			target = commit.Hash
		}
		if existing, ok := tags[target]; !ok || betterTag(candidate, existing) {
			tags[target] = candidate
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags failed: %w", err)
	}
	return tags, nil
}

func betterTag(a, b tagCandidate) bool {
	if a.annotated != b.annotated {
		return a.annotated
	}
	av, aerr := mmsemver.NewVersion(strings.TrimPrefix(a.name, "v"))
	bv, berr := mmsemver.NewVersion(strings.TrimPrefix(b.name, "v"))
	if aerr == nil && berr == nil {
		return av.GreaterThan(bv)
	}
	return a.name > b.name
}
