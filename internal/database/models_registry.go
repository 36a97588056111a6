package database

import "alcove/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Vote{},
		&models.Reaction{},
		&models.ModerationReport{},
	}
}
