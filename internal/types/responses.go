package types

import (
	"time"

	"github.com/taskflow-dev/taskflow/internal/models"
)

type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBrief is the compact user shape embedded in project, member and task
// responses. Password hashes never leave the models package.
type UserBrief struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ProjectMemberResponse struct {
	ID       uint      `json:"id"`
	User     UserBrief `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

type ProjectResponse struct {
	ID          uint                    `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	OwnerID     uint                    `json:"owner_id"`
	Owner       UserBrief               `json:"owner"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Members     []ProjectMemberResponse `json:"members"`
}

type ProjectListResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint      `json:"owner_id"`
	Owner       UserBrief `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaskResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Complexity  string     `json:"complexity"`
	ProjectID   uint       `json:"project_id"`
	CreatorID   uint       `json:"creator_id"`
	Creator     UserBrief  `json:"creator"`
	Assignee    *UserBrief `json:"assignee"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

func NewUserBrief(user models.User) UserBrief {
	return UserBrief{
		ID:       user.ID,
		Username: user.Username,
	}
}

func NewProjectMemberResponse(member models.ProjectMember) ProjectMemberResponse {
	return ProjectMemberResponse{
		ID:       member.ID,
		User:     NewUserBrief(member.User),
		JoinedAt: member.CreatedAt,
	}
}

func NewProjectResponse(project models.Project) ProjectResponse {
	members := make([]ProjectMemberResponse, 0, len(project.Members))

	for _, member := range project.Members {
		members = append(members, NewProjectMemberResponse(member))
	}

	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Owner:       NewUserBrief(project.Owner),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Members:     members,
	}
}

func NewProjectListResponse(project models.Project) ProjectListResponse {
	return ProjectListResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Owner:       NewUserBrief(project.Owner),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func NewTaskResponse(task models.Task) TaskResponse {
	var assignee *UserBrief

	if task.AssigneeID != nil && task.Assignee != nil {
		brief := NewUserBrief(*task.Assignee)
		assignee = &brief
	}

	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Complexity:  task.Complexity,
		ProjectID:   task.ProjectID,
		CreatorID:   task.CreatorID,
		Creator:     NewUserBrief(task.Creator),
		Assignee:    assignee,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}
