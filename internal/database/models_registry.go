package database

import "rightfit/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Exercise{},
		&models.Workout{},
		&models.Request{},
	}
}
