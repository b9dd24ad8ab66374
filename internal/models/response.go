package models

import (
	"time"

	"portfolio-backend/internal/media"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MobileAppResponse struct {
	ID             int64            `json:"id"`
	ProjectName    string           `json:"project_name"`
	Industry       string           `json:"industry"`
	Stacks         []string         `json:"stacks"`
	Designer       string           `json:"designer,omitempty"`
	DesignerLink   string           `json:"designer_link,omitempty"`
	Company        string           `json:"company,omitempty"`
	Status         string           `json:"status"`
	Media          media.Collection `json:"media"`
	ProjectLink    string           `json:"project_link,omitempty"`
	GithubLink     string           `json:"github_link,omitempty"`
	CreatedByEmail string           `json:"created_by_email,omitempty"`
	StacksCount    int              `json:"stacks_count"`
	MediaCount     int              `json:"media_count"`
	FeaturedImage  string           `json:"featured_image,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func NewMobileAppResponse(app *MobileApp) MobileAppResponse {
	resp := MobileAppResponse{
		ID:             app.ID,
		ProjectName:    app.ProjectName,
		Industry:       app.Industry,
		Stacks:         app.Stacks,
		Designer:       app.Designer.String,
		DesignerLink:   app.DesignerLink.String,
		Company:        app.Company.String,
		Status:         app.Status,
		Media:          app.Media,
		ProjectLink:    app.ProjectLink.String,
		GithubLink:     app.GithubLink.String,
		CreatedByEmail: app.CreatedByEmail.String,
		StacksCount:    len(app.Stacks),
		MediaCount:     len(app.Media),
		FeaturedImage:  app.FeaturedImage.String,
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
	}
	if resp.Media == nil {
		resp.Media = media.Collection{}
	}
	return resp
}

type MobileAppDataResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    MobileAppResponse `json:"data"`
}

type MobileAppListResponse struct {
	Success    bool                `json:"success"`
	Data       []MobileAppResponse `json:"data"`
	TotalCount int                 `json:"total_count"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
