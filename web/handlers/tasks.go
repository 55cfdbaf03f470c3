package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/web/common"
)

type createTaskBody struct {
	WorkerID        string    `json:"workerId" binding:"required"`
	Title           string    `json:"title" binding:"required,max=255"`
	Description     string    `json:"description"`
	Priority        string    `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	DueDate         time.Time `json:"dueDate" binding:"required"`
	Notes           string    `json:"notes"`
	RelatedRequests []string  `json:"relatedRequests"`
}

func (ep *Endpoint) CreateTask(c *gin.Context) {
	var body createTaskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	task, err := ep.engine.CreateTask(c.Request.Context(), principal(c), engine.CreateTaskParams{
		WorkerID:        body.WorkerID,
		Title:           body.Title,
		Description:     body.Description,
		Priority:        body.Priority,
		DueDate:         body.DueDate,
		Notes:           body.Notes,
		RelatedRequests: body.RelatedRequests,
		Client:          clientMeta(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(task))
}

func (ep *Endpoint) MyTasks(c *gin.Context) {
	var query struct {
		Status   string `form:"status" binding:"omitempty,oneof=pending in-progress completed cancelled"`
		Priority string `form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	tasks, err := ep.engine.ListTasksForWorker(c.Request.Context(), principal(c), query.Status, query.Priority)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(tasks))
}

type updateTaskStatusBody struct {
	Status string `json:"status" binding:"required,oneof=pending in-progress completed cancelled"`
}

func (ep *Endpoint) UpdateTaskStatus(c *gin.Context) {
	var body updateTaskStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	task, err := ep.engine.UpdateTaskStatus(c.Request.Context(), principal(c), c.Param("id"), engine.UpdateTaskStatusParams{
		Status: body.Status,
		Client: clientMeta(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(task))
}
