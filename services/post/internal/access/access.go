// Package access decides who may see and change posts.
//
// Reads and writes are deliberately asymmetric: admins may modify any post
// but read PRIVATE posts only when they wrote them.
package access

import (
	"enterprise-blog/pkg/apperror"
	"enterprise-blog/pkg/session"
	"enterprise-blog/services/post/internal/entity"
)

var (
	ErrLoginRequired = apperror.New(apperror.Unauthenticated, "Login required")
	ErrAccessDenied  = apperror.New(apperror.Forbidden, "Access denied")
)

// CheckRead returns nil when viewer may read post. Anonymous readers of
// INTERNAL posts get ErrLoginRequired; every other denial is ErrAccessDenied.
func CheckRead(post *entity.Post, viewer *session.Identity) error {
	switch post.AccessLevel {
	case entity.AccessPublic:
		return nil
	case entity.AccessInternal:
		if viewer == nil {
			return ErrLoginRequired
		}
		return nil
	case entity.AccessPrivate:
		if viewer != nil && viewer.ID == post.AuthorID {
			return nil
		}
		return ErrAccessDenied
	default:
		return ErrAccessDenied
	}
}

func CanRead(post *entity.Post, viewer *session.Identity) bool {
	return CheckRead(post, viewer) == nil
}

// CanModify covers both update and delete.
func CanModify(post *entity.Post, viewer *session.Identity) bool {
	if viewer == nil {
		return false
	}
	return viewer.ID == post.AuthorID || viewer.IsAdmin()
}

// Predicate is the collection form of CanRead: a post matches when its access
// level is listed, or when AuthorID is set and equals the post's author.
type Predicate struct {
	AccessLevels []entity.AccessLevel
	AuthorID     string
}

func BuildVisibilityFilter(viewer *session.Identity) Predicate {
	if viewer == nil {
		return Predicate{AccessLevels: []entity.AccessLevel{entity.AccessPublic}}
	}
	return Predicate{
		AccessLevels: []entity.AccessLevel{entity.AccessPublic, entity.AccessInternal},
		AuthorID:     viewer.ID,
	}
}

func (p Predicate) Matches(post *entity.Post) bool {
	if p.AuthorID != "" && post.AuthorID == p.AuthorID {
		return true
	}
	for _, level := range p.AccessLevels {
		if post.AccessLevel == level {
			return true
		}
	}
	return false
}

// Levels returns the access levels as plain strings for query arguments.
func (p Predicate) Levels() []string {
	levels := make([]string, len(p.AccessLevels))
	for i, level := range p.AccessLevels {
		levels[i] = string(level)
	}
	return levels
}
