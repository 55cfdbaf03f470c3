package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/web/common"
)

type geolocationBody struct {
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
	Address   string  `json:"address"`
}

type checkInBody struct {
	WorkLocation string           `json:"workLocation" binding:"omitempty,oneof=office remote hybrid"`
	Notes        string           `json:"notes"`
	Geolocation  *geolocationBody `json:"geolocation"`
}

func (ep *Endpoint) CheckIn(c *gin.Context) {
	var body checkInBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	params := engine.CheckInParams{
		WorkLocation: body.WorkLocation,
		Notes:        body.Notes,
		Client:       clientMeta(c),
	}
	if body.Geolocation != nil {
		params.Geolocation = &engine.Geolocation{
			Latitude:  body.Geolocation.Latitude,
			Longitude: body.Geolocation.Longitude,
			Address:   body.Geolocation.Address,
		}
	}

	rec, err := ep.engine.CheckIn(c.Request.Context(), principal(c), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(rec))
}

type checkOutBody struct {
	BreakTime float64 `json:"breakTime" binding:"min=0"`
	Notes     string  `json:"notes"`
}

func (ep *Endpoint) CheckOut(c *gin.Context) {
	var body checkOutBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	rec, err := ep.engine.CheckOut(c.Request.Context(), principal(c), c.Param("id"), engine.CheckOutParams{
		BreakTime: body.BreakTime,
		Notes:     body.Notes,
		Client:    clientMeta(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

type correctAttendanceBody struct {
	CheckIn       *string  `json:"checkIn"`
	CheckOut      *string  `json:"checkOut"`
	BreakTime     *float64 `json:"breakTime" binding:"omitempty,min=0"`
	Status        *string  `json:"status" binding:"omitempty,oneof=present late absent early-leave half-day"`
	WorkLocation  *string  `json:"workLocation" binding:"omitempty,oneof=office remote hybrid"`
	Notes         *string  `json:"notes"`
	ApprovalNotes *string  `json:"approvalNotes"`
}

func (ep *Endpoint) CorrectAttendance(c *gin.Context) {
	var body correctAttendanceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	rec, err := ep.engine.Correct(c.Request.Context(), principal(c), c.Param("id"), engine.AttendancePatch{
		CheckIn:       body.CheckIn,
		CheckOut:      body.CheckOut,
		BreakTime:     body.BreakTime,
		Status:        body.Status,
		WorkLocation:  body.WorkLocation,
		Notes:         body.Notes,
		ApprovalNotes: body.ApprovalNotes,
		Client:        clientMeta(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *Endpoint) ListAttendance(c *gin.Context) {
	var query struct {
		UserID       string `form:"userId"`
		Status       string `form:"status"`
		WorkLocation string `form:"workLocation"`
		Start        string `form:"start"`
		End          string `form:"end"`
		Limit        int    `form:"limit,default=50" binding:"min=0,max=500"`
		Offset       int    `form:"offset" binding:"min=0"`
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

	records, total, err := ep.engine.ListAttendance(c.Request.Context(), principal(c), engine.AttendanceQuery{
		UserID:       query.UserID,
		Status:       query.Status,
		WorkLocation: query.WorkLocation,
		Start:        start,
		End:          end,
		Limit:        query.Limit,
		Offset:       query.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSearchResponse(records, total))
}

func (ep *Endpoint) GetAttendance(c *gin.Context) {
	rec, err := ep.engine.GetAttendanceRecord(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(rec))
}

func (ep *Endpoint) AttendanceStats(c *gin.Context) {
	var query struct {
		UserID string `form:"userId"`
		Start  string `form:"start" binding:"required"`
		End    string `form:"end" binding:"required"`
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

	stats, err := ep.engine.Aggregate(c.Request.Context(), principal(c), engine.AggregateParams{
		UserID: query.UserID,
		Start:  *start,
		End:    *end,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(stats))
}

// parseDateRange turns optional yyyy-mm-dd query values into a half-open
// interval: the end date itself is included, so end becomes end+24h.
func parseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startStr != "" {
		t, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if endStr != "" {
		t, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return nil, nil, err
		}
		t = t.Add(24 * time.Hour)
		end = &t
	}
	return start, end, nil
}
