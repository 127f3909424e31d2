package journal

import (
	"log/slog"

	"github.com/go-git/go-git/v5"
)

// Metadata keys attached to every entry when the project is a git checkout.
const (
	MetaGitCommit = "git_commit"
	MetaGitBranch = "git_branch"
)

// GitMetadata describes the HEAD of the repository containing dir. It returns
// nil when dir is not inside a repository or HEAD cannot be resolved.
func GitMetadata(dir string) map[string]string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("Project is not a git repository", "dir", dir, "error", err)
		return nil
	}
	ref, err := repo.Head()
	if err != nil {
		slog.Debug("Failed to resolve git HEAD", "dir", dir, "error", err)
		return nil
	}

	meta := map[string]string{MetaGitCommit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		meta[MetaGitBranch] = ref.Name().Short()
	}
	return meta
}
