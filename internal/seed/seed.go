package seed

import (
	"fmt"
	"log"

	"alcove/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	ShouldClean     bool
}

// Seed populates the database with demo users, posts, threaded comments,
// votes, and reactions.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 20
	}
	if opts.CommentsPerPost <= 0 {
		opts.CommentsPerPost = 8
	}

	log.Printf("Seeding %d users, %d posts, ~%d comments per post...",
		opts.NumUsers, opts.NumPosts, opts.CommentsPerPost)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	var commentCount int
	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		n, err := f.seedDiscussion(post, users, opts.CommentsPerPost)
		if err != nil {
			return fmt.Errorf("failed to seed discussion for post %d: %w", post.ID, err)
		}
		commentCount += n
	}
	log.Printf("Created %d posts with %d comments", opts.NumPosts, commentCount)

	return nil
}

// seedDiscussion builds a plausible thread under the post: a few roots, then
// replies hung off random earlier comments, plus scattered votes and
// reactions.
func (f *Factory) seedDiscussion(post *models.Post, users []*models.User, budget int) (int, error) {
	var thread []*models.Comment

	for i := 0; i < budget; i++ {
		author := users[f.rng.Intn(len(users))]

		var parent *models.Comment
		// Two thirds of comments after the first few reply to an earlier one.
		if len(thread) > 2 && f.rng.Intn(3) != 0 {
			parent = thread[f.rng.Intn(len(thread))]
		}

		comment, err := f.CreateComment(author, post, parent)
		if err != nil {
			return len(thread), err
		}
		thread = append(thread, comment)

		// Sprinkle votes from other users.
		for _, voter := range users {
			if voter.ID == author.ID || f.rng.Intn(4) != 0 {
				continue
			}
			value := models.VoteUp
			if f.rng.Intn(5) == 0 {
				value = models.VoteDown
			}
			if err := f.CreateVote(voter.ID, models.CommentTarget(comment.ID), value); err != nil {
				return len(thread), err
			}
		}

		// And the occasional reaction.
		if f.rng.Intn(2) == 0 {
			reactor := users[f.rng.Intn(len(users))]
			if err := f.CreateReaction(reactor.ID, models.CommentTarget(comment.ID), f.randomReactionKind()); err != nil {
				return len(thread), err
			}
		}
	}

	return len(thread), nil
}

// clearData removes seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	tables := []string{"reactions", "votes", "moderation_reports", "comments", "posts", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
