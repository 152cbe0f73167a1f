package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mehedi-Hassan-Rauf/project-management/logging"
	"github.com/Mehedi-Hassan-Rauf/project-management/models"
	"github.com/Mehedi-Hassan-Rauf/project-management/policy"
)

type ProjectService struct {
	ProjectsCollection *mongo.Collection
	TasksCollection    *mongo.Collection
	UsersCollection    *mongo.Collection
}

func NewProjectService(projects, tasks, users *mongo.Collection) *ProjectService {
	return &ProjectService{
		ProjectsCollection: projects,
		TasksCollection:    tasks,
		UsersCollection:    users,
	}
}

// ListProjects returns the projects visible to the caller, newest first,
// with user references expanded. An empty result is a success.
func (s *ProjectService) ListProjects(ctx context.Context, caller models.Identity) ([]models.ProjectView, error) {
	if !policy.Allows(caller, policy.ActionList, policy.ResourceProject) {
		return nil, fmt.Errorf("list projects: %w", ErrForbidden)
	}

	filter := policy.ProjectVisibilityFilter(caller)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.ProjectsCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	return s.expandProjects(ctx, projects)
}

// GetProject fetches a single project by id with references expanded. Any
// authenticated caller may fetch any project directly; only the list is
// visibility-filtered.
func (s *ProjectService) GetProject(ctx context.Context, caller models.Identity, id string) (*models.ProjectView, error) {
	if !policy.Allows(caller, policy.ActionGet, policy.ResourceProject) {
		return nil, fmt.Errorf("get project: %w", ErrForbidden)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	return s.fetchProjectView(ctx, objectID)
}

// CreateProject inserts a new project managed by the caller and returns it
// re-fetched with references expanded.
func (s *ProjectService) CreateProject(ctx context.Context, caller models.Identity, in models.CreateProjectInput) (*models.ProjectView, error) {
	if !policy.Allows(caller, policy.ActionCreate, policy.ResourceProject) {
		return nil, fmt.Errorf("create project: %w", ErrForbidden)
	}

	project, err := newProjectFromInput(caller, in)
	if err != nil {
		return nil, err
	}

	result, err := s.ProjectsCollection.InsertOne(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.fetchProjectView(ctx, result.InsertedID.(primitive.ObjectID))
}

// newProjectFromInput builds the stored document for a new project. The
// caller always becomes the manager; a manager supplied in the request body
// is ignored.
func newProjectFromInput(caller models.Identity, in models.CreateProjectInput) (*models.Project, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("project title is required: %w", ErrValidation)
	}

	status := models.ProjectStatusPlanning
	if in.Status != "" {
		parsed, err := models.ParseProjectStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		status = parsed
	}

	teamMembers, err := parseMemberIDs(in.TeamMembers)
	if err != nil {
		return nil, err
	}

	return &models.Project{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		ManagerID:   caller.UserID,
		TeamMembers: teamMembers,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// UpdateProject applies a merge update of the provided fields and returns
// the post-update document with references expanded.
func (s *ProjectService) UpdateProject(ctx context.Context, caller models.Identity, id string, in models.UpdateProjectInput) (*models.ProjectView, error) {
	if !policy.Allows(caller, policy.ActionUpdate, policy.ResourceProject) {
		return nil, fmt.Errorf("update project: %w", ErrForbidden)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	set, err := projectUpdateDocument(in)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		// Nothing to merge; behave like a fetch.
		return s.fetchProjectView(ctx, objectID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Project
	err = s.ProjectsCollection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("project %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.expandProject(ctx, updated)
}

func projectUpdateDocument(in models.UpdateProjectInput) (bson.M, error) {
	if in.ManagerID != nil {
		return nil, fmt.Errorf("managerId is immutable: %w", ErrValidation)
	}

	set := bson.M{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("project title is required: %w", ErrValidation)
		}
		set["title"] = *in.Title
	}
	if in.Description != nil {
		set["description"] = *in.Description
	}
	if in.Status != nil {
		status, err := models.ParseProjectStatus(*in.Status)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, ErrValidation)
		}
		set["status"] = status
	}
	if in.TeamMembers != nil {
		teamMembers, err := parseMemberIDs(*in.TeamMembers)
		if err != nil {
			return nil, err
		}
		set["teamMembers"] = teamMembers
	}
	if in.StartDate != nil {
		set["startDate"] = *in.StartDate
	}
	if in.EndDate != nil {
		set["endDate"] = *in.EndDate
	}
	return set, nil
}

// DeleteProject removes the project and cascades deletion over its tasks.
// The cascade is a second, non-transactional operation; its failure surfaces
// as a gateway error after the project itself is already gone.
func (s *ProjectService) DeleteProject(ctx context.Context, caller models.Identity, id string) error {
	if !policy.Allows(caller, policy.ActionDelete, policy.ResourceProject) {
		return fmt.Errorf("delete project: %w", ErrForbidden)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	result, err := s.ProjectsCollection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("project %q: %w", id, ErrNotFound)
	}

	tasksResult, err := s.TasksCollection.DeleteMany(ctx, bson.M{"projectId": objectID})
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_CASCADE_DELETE_FAILED, Description: Project %s deleted but cascading task delete failed: %v", id, err)
		return fmt.Errorf("failed to delete tasks for project: %w", err)
	}
	if tasksResult.DeletedCount > 0 {
		logging.Logger.Infof("Event ID: TASK_CASCADE_DELETE, Description: Deleted %d tasks belonging to project %s", tasksResult.DeletedCount, id)
	}

	return nil
}

func (s *ProjectService) fetchProjectView(ctx context.Context, id primitive.ObjectID) (*models.ProjectView, error) {
	var project models.Project
	err := s.ProjectsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("project %q: %w", id.Hex(), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	return s.expandProject(ctx, project)
}

func (s *ProjectService) expandProject(ctx context.Context, project models.Project) (*models.ProjectView, error) {
	views, err := s.expandProjects(ctx, []models.Project{project})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// expandProjects resolves manager and team member references across all
// given projects with a single users query.
func (s *ProjectService) expandProjects(ctx context.Context, projects []models.Project) ([]models.ProjectView, error) {
	views := make([]models.ProjectView, 0, len(projects))
	if len(projects) == 0 {
		return views, nil
	}

	ids := make([]primitive.ObjectID, 0, len(projects))
	seen := make(map[primitive.ObjectID]bool)
	for _, p := range projects {
		for _, id := range append([]primitive.ObjectID{p.ManagerID}, p.TeamMembers...) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	summaries, err := fetchUserSummaries(ctx, s.UsersCollection, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range projects {
		view := models.ProjectView{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Status:      p.Status,
			Manager:     summaries[p.ManagerID],
			TeamMembers: make([]models.UserSummary, 0, len(p.TeamMembers)),
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
			CreatedAt:   p.CreatedAt,
		}
		if view.Manager.ID.IsZero() {
			// Referenced user no longer exists; keep the raw id so the
			// reference stays visible.
			view.Manager = models.UserSummary{ID: p.ManagerID}
		}
		for _, memberID := range p.TeamMembers {
			summary, ok := summaries[memberID]
			if !ok {
				summary = models.UserSummary{ID: memberID}
			}
			view.TeamMembers = append(view.TeamMembers, summary)
		}
		views = append(views, view)
	}

	return views, nil
}

// fetchUserSummaries loads the summary fields of the given users in one
// query and keys them by id.
func fetchUserSummaries(ctx context.Context, users *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	defer cursor.Close(ctx)

	var found []models.UserSummary
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	for _, summary := range found {
		summaries[summary.ID] = summary
	}
	return summaries, nil
}

// parseMemberIDs converts hex ids from a request body into a deduplicated
// id set. Insertion order is preserved but carries no meaning.
func parseMemberIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	seen := make(map[primitive.ObjectID]bool)
	for _, r := range raw {
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			return nil, fmt.Errorf("invalid team member id %q: %w", r, ErrValidation)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
