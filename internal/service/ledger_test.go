package service

import (
	"context"
	"testing"

	"alcove/internal/database"
	"alcove/internal/models"
	"alcove/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLedgerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

func seedCommentRow(t *testing.T, db *gorm.DB) *models.Comment {
	t.Helper()
	user := &models.User{Username: "author", Email: "author@example.com", Password: "hash"}
	require.NoError(t, db.Create(user).Error)
	post := &models.Post{Title: "Post", Content: "A perfectly fine body.", UserID: user.ID}
	require.NoError(t, db.Create(post).Error)
	comment := &models.Comment{Content: "hello", UserID: user.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func commentVoteCount(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var c models.Comment
	require.NoError(t, db.First(&c, id).Error)
	return c.VoteCount
}

func TestVoteLedger_ToggleStateMachine(t *testing.T) {
	db := setupLedgerDB(t)
	comment := seedCommentRow(t, db)
	ledger := NewVoteLedger(repository.NewVoteRepository(db))
	ctx := context.Background()
	target := models.CommentTarget(comment.ID)

	t.Run("first vote creates record", func(t *testing.T) {
		result, err := ledger.Apply(ctx, 1, target, models.VoteUp)
		require.NoError(t, err)
		assert.Equal(t, models.VoteUp, result.State)
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, 1, commentVoteCount(t, db, comment.ID))
	})

	t.Run("same direction toggles off", func(t *testing.T) {
		result, err := ledger.Apply(ctx, 1, target, models.VoteUp)
		require.NoError(t, err)
		assert.Equal(t, 0, result.State)
		assert.Equal(t, 0, result.Count)

		var count int64
		db.Model(&models.Vote{}).Where("user_id = ?", 1).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("opposite direction flips in place", func(t *testing.T) {
		_, err := ledger.Apply(ctx, 1, target, models.VoteUp)
		require.NoError(t, err)

		result, err := ledger.Apply(ctx, 1, target, models.VoteDown)
		require.NoError(t, err)
		assert.Equal(t, models.VoteDown, result.State)
		assert.Equal(t, -1, result.Count)

		var count int64
		db.Model(&models.Vote{}).Where("user_id = ?", 1).Count(&count)
		assert.Equal(t, int64(1), count, "flip must not leave a second record")
	})

	t.Run("count aggregates across users", func(t *testing.T) {
		_, err := ledger.Apply(ctx, 2, target, models.VoteUp)
		require.NoError(t, err)
		result, err := ledger.Apply(ctx, 3, target, models.VoteUp)
		require.NoError(t, err)
		// user 1 holds a down vote from the previous subtest
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, 1, commentVoteCount(t, db, comment.ID))
	})

	t.Run("invalid direction rejected", func(t *testing.T) {
		_, err := ledger.Apply(ctx, 1, target, 2)
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}

func TestVoteLedger_PostTarget(t *testing.T) {
	db := setupLedgerDB(t)
	comment := seedCommentRow(t, db)
	ledger := NewVoteLedger(repository.NewVoteRepository(db))
	ctx := context.Background()

	result, err := ledger.Apply(ctx, 1, models.PostTarget(comment.PostID), models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)

	var post models.Post
	require.NoError(t, db.First(&post, comment.PostID).Error)
	assert.Equal(t, 1, post.VoteCount)
	// post and comment ledgers are independent
	assert.Zero(t, commentVoteCount(t, db, comment.ID))
}

func TestReactionLedger_Toggle(t *testing.T) {
	db := setupLedgerDB(t)
	comment := seedCommentRow(t, db)
	ledger := NewReactionLedger(repository.NewReactionRepository(db))
	ctx := context.Background()
	target := models.CommentTarget(comment.ID)

	t.Run("toggle on then off", func(t *testing.T) {
		result, err := ledger.Toggle(ctx, 1, target, "heart")
		require.NoError(t, err)
		assert.True(t, result.Added)
		assert.Equal(t, map[string]int{"heart": 1}, result.Counts)

		result, err = ledger.Toggle(ctx, 1, target, "heart")
		require.NoError(t, err)
		assert.False(t, result.Added)
		assert.Empty(t, result.Counts)
	})

	t.Run("kinds are independent", func(t *testing.T) {
		_, err := ledger.Toggle(ctx, 1, target, "thumbs_up")
		require.NoError(t, err)
		result, err := ledger.Toggle(ctx, 1, target, "laugh")
		require.NoError(t, err)
		assert.True(t, result.Added)
		assert.Equal(t, map[string]int{"thumbs_up": 1, "laugh": 1}, result.Counts)

		// removing one kind leaves the other
		result, err = ledger.Toggle(ctx, 1, target, "thumbs_up")
		require.NoError(t, err)
		assert.False(t, result.Added)
		assert.Equal(t, map[string]int{"laugh": 1}, result.Counts)
	})

	t.Run("tallies are per kind, never merged", func(t *testing.T) {
		_, err := ledger.Toggle(ctx, 2, target, "laugh")
		require.NoError(t, err)
		result, err := ledger.Toggle(ctx, 3, target, "fire")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"laugh": 2, "fire": 1}, result.Counts)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := ledger.Toggle(ctx, 1, target, "shrug")
		require.Error(t, err)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	})
}
