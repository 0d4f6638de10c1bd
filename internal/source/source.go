// Package source reports the version-control state of a book directory.
package source

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info identifies the revision a run operated on. The zero value means the
// directory is not inside a git repository.
type Info struct {
	Root   string
	Commit string
	Branch string
	Dirty  bool
}

// IsRepository reports whether Info describes a repository.
func (i Info) IsRepository() bool { return i.Root != "" }

// ShortCommit returns the first seven characters of the commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

func (i Info) String() string {
	if !i.IsRepository() {
		return "not a git repository"
	}
	commit := i.ShortCommit()
	if commit == "" {
		commit = "(no commits)"
	}
	s := commit
	if i.Branch != "" {
		s = fmt.Sprintf("%s (%s)", commit, i.Branch)
	}
	if i.Dirty {
		s += " dirty"
	}
	return s
}

// Inspect opens the repository containing dir, searching parent directories.
// A directory outside any repository yields a zero Info and no error.
func Inspect(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return Info{}, nil
	}
	if err != nil {
		return Info{}, fmt.Errorf("open repository: %w", err)
	}

	info := Info{Root: dir}
	wt, wtErr := repo.Worktree()
	if wtErr == nil {
		info.Root = wt.Filesystem.Root()
	}

	ref, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// freshly initialized repository without commits
	case err != nil:
		return info, fmt.Errorf("resolve HEAD: %w", err)
	default:
		info.Commit = ref.Hash().String()
		if ref.Name().IsBranch() {
			info.Branch = ref.Name().Short()
		}
	}

	if wtErr != nil {
		if errors.Is(wtErr, git.ErrIsBareRepository) {
			return info, nil
		}
		return info, fmt.Errorf("open worktree: %w", wtErr)
	}
	status, err := wt.Status()
	if err != nil {
		return info, fmt.Errorf("worktree status: %w", err)
	}
	info.Dirty = !status.IsClean()
	return info, nil
}
