package pipeline

import (
	"github.com/go-git/go-git/v5"
)

// GitRevision returns the HEAD commit of the git working tree containing
// root, or "" when root is not inside a repository or HEAD is unborn.
func GitRevision(root string) string {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
