package service

import "github.com/google/uuid"

const (
	ViewDashboard         = "/dashboard"
	ViewDashboardProjects = "/dashboard/projects"
	ViewSettings          = "/dashboard/settings"
	ViewAdmin             = "/admin"
	ViewAdminProjects     = "/admin/projects"
)

func ViewClientProject(projectID uuid.UUID) string {
	return ViewDashboardProjects + "/" + projectID.String()
}

func ViewAdminProject(projectID uuid.UUID) string {
	return ViewAdminProjects + "/" + projectID.String()
}

// projectViews is every page that renders a single project.
func projectViews(projectID uuid.UUID) []string {
	return []string{ViewClientProject(projectID), ViewAdminProject(projectID)}
}
