package service

import (
	"context"
	"time"

	"alcove/internal/models"
	"alcove/internal/repository"
	"alcove/internal/safety"
)

// PostService creates and reads posts. Post bodies pass through the same
// submission gate as comments, with the wider post bounds.
type PostService struct {
	posts   repository.PostRepository
	gate    *safety.Gate
	flagger *AutoFlagger
}

// CreatePostInput carries a new post submission.
type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

// NewPostService returns a new PostService.
func NewPostService(posts repository.PostRepository, gate *safety.Gate, flagger *AutoFlagger) *PostService {
	return &PostService{posts: posts, gate: gate, flagger: flagger}
}

// CreatePost gates the body, persists the sanitized content, and hands the
// original text to the auto-flagger in a detached goroutine.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}

	sub, err := s.gate.CheckPost(in.Content)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   safety.Sanitize(in.Title),
		Content: sub.Sanitized,
		UserID:  in.UserID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if sub.Verdict.ShouldAutoFlag() && s.flagger != nil {
		original := in.Content
		go func() {
			flagCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s.flagger.Flag(flagCtx, FlagInput{
				ContentID:   post.ID,
				ContentType: models.TargetPost,
				Content:     original,
				AuthorID:    in.UserID,
			})
		}()
	}

	return s.posts.GetByID(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.posts.List(ctx, limit, offset)
}
