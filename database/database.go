package database

import (
	"github.com/aliraza-a/portfolio-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	projectRepo *ProjectRepo
	messageRepo *MessageRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo: NewProjectRepo(db),
		messageRepo: NewMessageRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) MessageRepo() *MessageRepo {
	return d.messageRepo
}

// Migrate creates or updates the two persisted tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Project{}, &models.Message{})
}
