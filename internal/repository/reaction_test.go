package repository

import (
	"context"
	"regexp"
	"testing"

	"alcove/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReactionRepository_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	t.Run("Existing Reaction", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "kind"}).
			AddRow(3, 1, "comment", 42, "heart")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reactions" WHERE user_id = $1 AND target_type = $2 AND target_id = $3 AND kind = $4`)).
			WithArgs(1, "comment", 42, "heart", 1).
			WillReturnRows(rows)

		reaction, err := repo.Get(ctx, 1, models.CommentTarget(42), "heart")
		assert.NoError(t, err)
		require.NotNil(t, reaction)
		assert.Equal(t, "heart", reaction.Kind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Reaction Returns Nil Without Error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reactions" WHERE user_id = $1 AND target_type = $2 AND target_id = $3 AND kind = $4`)).
			WithArgs(1, "comment", 42, "fire", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		reaction, err := repo.Get(ctx, 1, models.CommentTarget(42), "fire")
		assert.NoError(t, err)
		assert.Nil(t, reaction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReactionRepository_CreateAndDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, &models.Reaction{UserID: 1, TargetType: "comment", TargetID: 42, Kind: "laugh"})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reactions"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Delete(ctx, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_CountsForTargets(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	t.Run("Grouped Counts", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"target_id", "kind", "total"}).
			AddRow(10, "heart", 4).
			AddRow(10, "laugh", 1).
			AddRow(12, "fire", 2)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT target_id, kind, COUNT(*) as total FROM "reactions" WHERE target_type = $1 AND target_id IN ($2,$3,$4) GROUP BY target_id, kind`)).
			WithArgs("comment", 10, 11, 12).
			WillReturnRows(rows)

		counts, err := repo.CountsForTargets(ctx, models.TargetComment, []uint{10, 11, 12})
		assert.NoError(t, err)
		assert.Equal(t, map[uint]map[string]int{
			10: {"heart": 4, "laugh": 1},
			12: {"fire": 2},
		}, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Target List Skips Query", func(t *testing.T) {
		counts, err := repo.CountsForTargets(ctx, models.TargetComment, nil)
		assert.NoError(t, err)
		assert.Empty(t, counts)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReactionRepository_ViewerKinds(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReactionRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "user_id", "target_type", "target_id", "kind"}).
		AddRow(1, 1, "comment", 10, "heart").
		AddRow(2, 1, "comment", 10, "laugh").
		AddRow(3, 1, "comment", 12, "fire")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reactions" WHERE user_id = $1 AND target_type = $2 AND target_id IN ($3,$4) ORDER BY kind asc`)).
		WithArgs(1, "comment", 10, 12).
		WillReturnRows(rows)

	kinds, err := repo.ViewerKinds(ctx, 1, models.TargetComment, []uint{10, 12})
	assert.NoError(t, err)
	assert.Equal(t, map[uint][]string{
		10: {"heart", "laugh"},
		12: {"fire"},
	}, kinds)
	assert.NoError(t, mock.ExpectationsWereMet())
}
