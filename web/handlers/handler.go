package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/model"
	"smartlock.io/smartlock/web/common"
	"smartlock.io/smartlock/web/middlewares"
)

type Endpoint struct {
	engine *engine.Engine
}

// Register wires the lifecycle routes onto an authenticated group.
func Register(r *gin.RouterGroup, e *engine.Engine) {
	ep := &Endpoint{engine: e}

	r.GET("/attendance", ep.ListAttendance)
	r.GET("/attendance/stats", ep.AttendanceStats)
	r.GET("/attendance/:id", ep.GetAttendance)
	r.POST("/attendance/check-in", ep.CheckIn)
	r.POST("/attendance/check-out/:id", ep.CheckOut)
	r.PATCH("/attendance/:id", ep.CorrectAttendance)

	r.POST("/requests", ep.SubmitRequest)
	r.GET("/requests", ep.ListRequests)
	r.GET("/requests/my-requests", ep.MyRequests)
	r.GET("/requests/pending", ep.PendingRequests)
	r.PATCH("/requests/:id/process", ep.ProcessRequest)

	r.POST("/tasks", ep.CreateTask)
	r.GET("/tasks/my-tasks", ep.MyTasks)
	r.PATCH("/tasks/:id/status", ep.UpdateTaskStatus)

	r.GET("/logs", ep.MyLogs)
	r.GET("/reports/attendance.xlsx", ep.ExportAttendanceReport)
}

func clientMeta(c *gin.Context) engine.ClientMeta {
	return engine.ClientMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch engine.KindOf(err) {
	case engine.KindValidation:
		status = http.StatusBadRequest
	case engine.KindUnauthenticated:
		status = http.StatusUnauthorized
	case engine.KindForbidden:
		status = http.StatusForbidden
	case engine.KindNotFound:
		status = http.StatusNotFound
	case engine.KindConflict, engine.KindInvalidTransition:
		status = http.StatusConflict
	}
	c.JSON(status, common.NewErrorResponse(err.Error()))
}

func principal(c *gin.Context) *model.Principal {
	return middlewares.PrincipalFrom(c)
}
