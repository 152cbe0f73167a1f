package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mehedi-Hassan-Rauf/project-management/clients"
	"github.com/Mehedi-Hassan-Rauf/project-management/config"
	"github.com/Mehedi-Hassan-Rauf/project-management/handlers"
	"github.com/Mehedi-Hassan-Rauf/project-management/logging"
	"github.com/Mehedi-Hassan-Rauf/project-management/middleware"
	"github.com/Mehedi-Hassan-Rauf/project-management/services"
)

// createProjectCreatedAtIndex backs the newest-first project listing.
func createProjectCreatedAtIndex(collection *mongo.Collection) error {
	indexModel := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}
	_, err := collection.Indexes().CreateOne(context.TODO(), indexModel)
	if err != nil {
		return fmt.Errorf("failed to create index on project createdAt: %v", err)
	}
	return nil
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting project management API...")

	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}
	if os.Getenv("JWT_SECRET") == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection failed: %v", err)
	}
	defer client.Disconnect(context.TODO())

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", cfg.MongoURI)

	db := client.Database(cfg.MongoDBName)
	projectsCollection := db.Collection("projects")
	tasksCollection := db.Collection("tasks")
	usersCollection := db.Collection("users")

	if err := createProjectCreatedAtIndex(projectsCollection); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: %v", err)
	}

	notifier := clients.NewNotificationsClient(cfg.NotificationsURL)

	projectService := services.NewProjectService(projectsCollection, tasksCollection, usersCollection)
	taskService := services.NewTaskService(tasksCollection, projectsCollection, usersCollection, notifier)

	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)

	api.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/project/{projectId}", taskHandler.ListTasksByProject).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	corsHandler := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
		gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	serverAddress := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsHandler); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
