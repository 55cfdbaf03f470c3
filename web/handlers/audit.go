package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/web/common"
)

func (ep *Endpoint) MyLogs(c *gin.Context) {
	var query struct {
		Start string `form:"start"`
		End   string `form:"end"`
		Limit int    `form:"limit" binding:"min=0,max=500"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	start, end, err := parseDateRange(query.Start, query.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}

	entries, err := ep.engine.ListAudit(c.Request.Context(), principal(c), engine.AuditQuery{
		Start: start,
		End:   end,
		Limit: query.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(entries))
}
