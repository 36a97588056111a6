package service

import (
	"context"
	"sync"
	"time"

	"alcove/internal/models"
	"alcove/internal/observability"
	"alcove/internal/repository"
	"alcove/internal/safety"
	"alcove/internal/thread"
)

// Change events published on a post's discussion channel. The payload is
// advisory only; subscribers reload rather than patch.
const (
	EventCommentCreated = "comment_created"
	EventCommentEdited  = "comment_edited"
	EventCommentDeleted = "comment_deleted"
	EventVoteChanged    = "vote_changed"
	EventReactionToggle = "reaction_toggled"
	EventPinToggle      = "pin_toggled"
)

// ChangeNotifier decouples the session from the transport that carries
// cross-instance change events.
type ChangeNotifier interface {
	PublishPostChange(ctx context.Context, postID uint, event string) error
	SubscribePost(ctx context.Context, postID uint, fn func(event string)) (func(), error)
}

// DiscussionDeps bundles the collaborators a session needs.
type DiscussionDeps struct {
	Comments  repository.CommentRepository
	Posts     repository.PostRepository
	Votes     *VoteLedger
	Reactions *ReactionLedger
	VoteRepo  repository.VoteRepository
	ReactRepo repository.ReactionRepository
	Gate      *safety.Gate
	Flagger   *AutoFlagger
	Notifier  ChangeNotifier
	IsAdmin   func(ctx context.Context, userID uint) (bool, error)
}

// DiscussionSession orchestrates one post's discussion for one viewer. It
// caches the ranked tree, refreshes it after every mutation, and reloads when
// the notifier reports an external change. Close releases the subscription;
// it never outlives the session.
type DiscussionSession struct {
	deps     DiscussionDeps
	postID   uint
	viewerID uint

	mu      sync.RWMutex
	sortKey thread.SortKey
	tree    []*models.Comment

	closeOnce   sync.Once
	unsubscribe func()
}

// OpenDiscussion verifies the post exists, subscribes to its change channel,
// and returns a session primed with the ranked tree.
func OpenDiscussion(ctx context.Context, deps DiscussionDeps, postID, viewerID uint, key thread.SortKey) (*DiscussionSession, error) {
	if _, err := deps.Posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	s := &DiscussionSession{
		deps:     deps,
		postID:   postID,
		viewerID: viewerID,
		sortKey:  key,
	}

	if deps.Notifier != nil {
		unsub, err := deps.Notifier.SubscribePost(ctx, postID, func(string) {
			s.onExternalChange()
		})
		if err != nil {
			return nil, err
		}
		s.unsubscribe = unsub
	}

	if _, err := s.Load(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the change subscription. Safe to call more than once.
func (s *DiscussionSession) Close() {
	s.closeOnce.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

// Load fetches the flat rows plus the viewer's vote and reaction state in
// batched queries, then builds and ranks the tree.
func (s *DiscussionSession) Load(ctx context.Context) ([]*models.Comment, error) {
	flat, err := s.deps.Comments.ListByPost(ctx, s.postID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(flat))
	for i, c := range flat {
		ids[i] = c.ID
	}

	viewerVotes, err := s.deps.VoteRepo.ViewerVotes(ctx, s.viewerID, models.TargetComment, ids)
	if err != nil {
		return nil, err
	}
	reactionCounts, err := s.deps.ReactRepo.CountsForTargets(ctx, models.TargetComment, ids)
	if err != nil {
		return nil, err
	}
	viewerKinds, err := s.deps.ReactRepo.ViewerKinds(ctx, s.viewerID, models.TargetComment, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range flat {
		c.ViewerVote = viewerVotes[c.ID]
		c.ReactionCounts = reactionCounts[c.ID]
		if c.ReactionCounts == nil {
			c.ReactionCounts = map[string]int{}
		}
		c.ViewerReactions = viewerKinds[c.ID]
		if c.IsDeleted {
			c.Content = models.DeletedPlaceholder
		}
	}

	start := time.Now()
	roots := thread.Build(flat)
	thread.Rank(roots, s.sortKey)
	observability.ObserveTreeBuild(start)

	s.mu.Lock()
	s.tree = roots
	s.mu.Unlock()
	return roots, nil
}

// Tree returns the last loaded ranked tree.
func (s *DiscussionSession) Tree() []*models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Post gates and persists a new comment, hands the original text to the
// auto-flagger in a detached goroutine, publishes the change, and reloads.
func (s *DiscussionSession) Post(ctx context.Context, content string, parentID *uint) (*models.Comment, error) {
	depth := 0
	if parentID != nil {
		parent, err := s.deps.Comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != s.postID {
			return nil, models.NewValidationError("Parent comment belongs to another post")
		}
		depth = parent.Depth + 1
	}

	sub, err := s.deps.Gate.CheckComment(content)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  sub.Sanitized,
		UserID:   s.viewerID,
		PostID:   s.postID,
		ParentID: parentID,
		Depth:    depth,
	}
	if err := s.deps.Comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if sub.Verdict.ShouldAutoFlag() && s.deps.Flagger != nil {
		original := content
		authorID := s.viewerID
		commentID := comment.ID
		go func() {
			flagCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.deps.Flagger.Flag(flagCtx, FlagInput{
				ContentID:   commentID,
				ContentType: models.TargetComment,
				Content:     original,
				AuthorID:    authorID,
			})
		}()
	}

	s.publish(ctx, EventCommentCreated)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.deps.Comments.GetByID(ctx, comment.ID)
}

// Edit replaces a comment's content, author-only. Edited content is
// re-sanitized but not re-classified.
func (s *DiscussionSession) Edit(ctx context.Context, commentID uint, content string) (*models.Comment, error) {
	comment, err := s.deps.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != s.postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if comment.UserID != s.viewerID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}
	if comment.IsDeleted {
		return nil, models.NewValidationError("Deleted comments cannot be edited")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	comment.Content = safety.Sanitize(content)
	if err := s.deps.Comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	s.publish(ctx, EventCommentEdited)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.deps.Comments.GetByID(ctx, commentID)
}

// Vote delegates to the vote ledger, publishes the change, and reloads.
func (s *DiscussionSession) Vote(ctx context.Context, commentID uint, direction int) (*VoteResult, error) {
	if _, err := s.memberComment(ctx, commentID); err != nil {
		return nil, err
	}

	result, err := s.deps.Votes.Apply(ctx, s.viewerID, models.CommentTarget(commentID), direction)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventVoteChanged)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// React delegates to the reaction ledger, publishes the change, and reloads.
func (s *DiscussionSession) React(ctx context.Context, commentID uint, kind string) (*ReactionResult, error) {
	if _, err := s.memberComment(ctx, commentID); err != nil {
		return nil, err
	}

	result, err := s.deps.Reactions.Toggle(ctx, s.viewerID, models.CommentTarget(commentID), kind)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventReactionToggle)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

// Pin toggles a comment's pinned flag. Only the post author may pin.
func (s *DiscussionSession) Pin(ctx context.Context, commentID uint) (*models.Comment, error) {
	post, err := s.deps.Posts.GetByID(ctx, s.postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != s.viewerID {
		return nil, models.NewUnauthorizedError("Only the post author can pin comments")
	}

	comment, err := s.memberComment(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Comments.SetPinned(ctx, commentID, !comment.IsPinned); err != nil {
		return nil, err
	}

	s.publish(ctx, EventPinToggle)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.deps.Comments.GetByID(ctx, commentID)
}

// Delete tombstones a comment. The author may remove their own; moderators
// may remove any.
func (s *DiscussionSession) Delete(ctx context.Context, commentID uint) error {
	comment, err := s.memberComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != s.viewerID {
		if s.deps.IsAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
		admin, err := s.deps.IsAdmin(ctx, s.viewerID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	if err := s.deps.Comments.MarkDeleted(ctx, commentID); err != nil {
		return err
	}

	s.publish(ctx, EventCommentDeleted)
	_, err = s.Load(ctx)
	return err
}

func (s *DiscussionSession) memberComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	comment, err := s.deps.Comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != s.postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	return comment, nil
}

func (s *DiscussionSession) publish(ctx context.Context, event string) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.PublishPostChange(ctx, s.postID, event); err != nil {
		observability.GlobalLogger.Warn("change publish failed",
			"post_id", s.postID,
			"event", event,
			"error", err,
		)
	}
}

// onExternalChange runs on the notifier's goroutine; reload fully replaces
// the cached tree, no incremental patching.
func (s *DiscussionSession) onExternalChange() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.Load(ctx); err != nil {
		observability.GlobalLogger.Warn("discussion reload after external change failed",
			"post_id", s.postID,
			"error", err,
		)
	}
}
