package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"smartlock.io/smartlock/engine"
	"smartlock.io/smartlock/web/common"
)

type submitRequestBody struct {
	Type     string         `json:"type" binding:"required,oneof=rfid door_unlock access_card"`
	Location string         `json:"location"`
	Notes    string         `json:"notes"`
	Metadata map[string]any `json:"metadata"`
}

func (ep *Endpoint) SubmitRequest(c *gin.Context) {
	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	req, err := ep.engine.SubmitRequest(c.Request.Context(), principal(c), engine.SubmitRequestParams{
		Type:     body.Type,
		Location: body.Location,
		Notes:    body.Notes,
		Metadata: body.Metadata,
		Client:   clientMeta(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.NewSuccessResponse(req))
}

func (ep *Endpoint) ListRequests(c *gin.Context) {
	var query struct {
		UserID string `form:"userId"`
		Status string `form:"status" binding:"omitempty,oneof=pending approved denied"`
		Start  string `form:"start"`
		End    string `form:"end"`
		Limit  int    `form:"limit,default=50" binding:"min=0,max=500"`
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

	requests, err := ep.engine.ListRequests(c.Request.Context(), principal(c), engine.RequestQuery{
		UserID: query.UserID,
		Status: query.Status,
		Start:  start,
		End:    end,
		Limit:  query.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(requests))
}

func (ep *Endpoint) MyRequests(c *gin.Context) {
	p := principal(c)
	if p == nil {
		respondError(c, engine.Unauthenticated())
		return
	}
	requests, err := ep.engine.ListRequests(c.Request.Context(), p, engine.RequestQuery{
		UserID: p.ID,
		Status: c.Query("status"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(requests))
}

func (ep *Endpoint) PendingRequests(c *gin.Context) {
	requests, err := ep.engine.ListPendingRequests(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(requests))
}

type processRequestBody struct {
	Decision string `json:"decision" binding:"required,oneof=approved denied"`
	Notes    string `json:"notes"`
}

func (ep *Endpoint) ProcessRequest(c *gin.Context) {
	var body processRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	result, err := ep.engine.ProcessRequest(c.Request.Context(), principal(c), c.Param("id"), engine.ProcessRequestParams{
		Decision: engine.Decision(body.Decision),
		Notes:    body.Notes,
		Client:   clientMeta(c),
	})
	if err != nil {
		// The decision itself committed but the follow-up task could not be
		// created; report partial success so the client can retry the spawn.
		if engine.KindOf(err) == engine.KindDependency && result != nil {
			c.JSON(http.StatusMultiStatus, gin.H{
				"data":    result,
				"warning": err.Error(),
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(result))
}
