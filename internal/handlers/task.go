package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/middleware"
	"github.com/huangang/taskhub/backend/internal/services"
	"github.com/huangang/taskhub/backend/pkg/response"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create adds a task to a project
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.GetUser(c), c.Param("id"), &req)
	if err != nil {
		fail(c, err)
		return
	}

	response.Created(c, task)
}

// UpdateStatus changes a task's status
// PUT /api/tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	var req services.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, task)
}
