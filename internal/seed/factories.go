// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"alcove/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rng: rand.New(rand.NewSource(seed))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post with a realistic
// created_at spread over the past days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		UserID:    user.ID,
		CreatedAt: f.pastTime(90 * 24 * time.Hour),
	}
	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the given post. A non-nil parent makes
// it a reply, one level deeper than the parent.
func (f *Factory) CreateComment(user *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(f.rng.Intn(12) + 3),
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: f.pastTime(72 * time.Hour),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		comment.Depth = parent.Depth + 1
	}
	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateVote records a vote and refreshes the target's cached count.
func (f *Factory) CreateVote(userID uint, target models.Target, value int) error {
	vote := &models.Vote{
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		Value:      value,
	}
	if err := f.db.Create(vote).Error; err != nil {
		return err
	}

	var total int
	if err := f.db.Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("target_type = ? AND target_id = ?", target.Type, target.ID).
		Scan(&total).Error; err != nil {
		return err
	}

	table := "comments"
	if target.Type == models.TargetPost {
		table = "posts"
	}
	return f.db.Table(table).Where("id = ?", target.ID).Update("vote_count", total).Error
}

// CreateReaction records one (user, target, kind) reaction triple.
func (f *Factory) CreateReaction(userID uint, target models.Target, kind string) error {
	return f.db.Create(&models.Reaction{
		UserID:     userID,
		TargetType: target.Type,
		TargetID:   target.ID,
		Kind:       kind,
	}).Error
}

// randomReactionKind picks one of the allowed kinds.
func (f *Factory) randomReactionKind() string {
	kinds := []string{
		models.ReactionThumbsUp,
		models.ReactionHeart,
		models.ReactionLaugh,
		models.ReactionFire,
		models.ReactionSad,
	}
	return kinds[f.rng.Intn(len(kinds))]
}

func (f *Factory) pastTime(window time.Duration) time.Time {
	return time.Now().Add(-time.Duration(f.rng.Int63n(int64(window))))
}
