package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/middleware"
	"github.com/huangang/taskhub/backend/internal/services"
	"github.com/huangang/taskhub/backend/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Mine lists projects the caller owns or is a member of
// GET /api/projects/mine
func (h *ProjectHandler) Mine(c *gin.Context) {
	projects, err := h.projectService.MyProjects(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, projects)
}

// Details returns the project with its owner, members and tasks. An unknown
// id is not an error; the response simply carries no data.
// GET /api/projects/:id
func (h *ProjectHandler) Details(c *gin.Context) {
	details, err := h.projectService.Details(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if details == nil {
		response.Success(c, nil)
		return
	}

	response.Success(c, details)
}

// Create creates a new project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.GetUser(c), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, project)
}

// Update updates project metadata
// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetUser(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, project)
}

// AddMember adds a user to the project's member set
// POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	var req services.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.AddMember(c.Request.Context(), middleware.GetUser(c), c.Param("id"), req.UserID)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, project)
}

// Delete deletes a project and its tasks
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	ok, err := h.projectService.Delete(c.Request.Context(), middleware.GetUser(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": ok})
}
