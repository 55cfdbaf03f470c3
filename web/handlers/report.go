package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/report"
	"smartlock.io/smartlock/web/common"
)

func (ep *Endpoint) ExportAttendanceReport(c *gin.Context) {
	var query struct {
		Start string `form:"start" binding:"required"`
		End   string `form:"end" binding:"required"`
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

	records, err := ep.engine.ExportAttendance(c.Request.Context(), principal(c), *start, *end, clientMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}

	f, err := report.BuildAttendanceWorkbook(records)
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		// headers already sent; nothing more we can do for the client
		_ = c.Error(err)
	}
}
