package api

import (
	"github.com/aliraza-a/portfolio-backend/auth"
	"github.com/aliraza-a/portfolio-backend/database"
	"github.com/aliraza-a/portfolio-backend/services"
	"github.com/aliraza-a/portfolio-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(
	db database.Database,
	gate *auth.Gate,
	blobs *storage.Client,
	notifier *services.Notifier,
	secureCookies bool,
) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(db.ProjectRepo(), gate, blobs),
		messageHandler: newMessageHandler(db.MessageRepo()),
		contactHandler: newContactHandler(db.MessageRepo(), notifier),
		authHandler:    newAuthHandler(gate, secureCookies),
		uploadHandler:  newUploadHandler(blobs),
	}
}
