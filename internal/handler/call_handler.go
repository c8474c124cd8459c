package handler

import (
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CallHandler struct {
	callService service.CallService
	tokens      service.TokenService
}

func NewCallHandler(callService service.CallService, tokens service.TokenService) *CallHandler {
	return &CallHandler{callService: callService, tokens: tokens}
}

func (h *CallHandler) RegisterRoutes(router *gin.RouterGroup) {
	calls := router.Group("/calls", middleware.RequireAuth(h.tokens))
	{
		calls.POST("", h.LogCall)
		calls.GET("", h.ListCalls)
		calls.GET("/:id", h.GetCallByID)
		calls.DELETE("/:id", h.DeleteCall)
	}

	// Per-contact call history with date filtering and sorting
	router.GET("/contacts/:id/calls", middleware.RequireAuth(h.tokens), h.QueryContactCalls)
}

// LogCall handles POST /calls
// @Summary      Log a call
// @Description  Appends a call to the ledger and updates the contact's status from the disposition in the same transaction
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.LogCallRequest  true  "Call Payload"
// @Success      201      {object}  response.Response{data=service.LogCallResult}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /calls [post]
func (h *CallHandler) LogCall(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.LogCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.callService.LogCall(c.Request.Context(), userID, role, req)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// QueryContactCalls handles GET /contacts/:id/calls
// @Summary      Query a contact's call history
// @Description  Returns the contact's calls, filtered by an inclusive date range and ordered by the requested sort key
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "Contact ID"
// @Param        from    query     string  false  "Inclusive lower date bound (YYYY-MM-DD)"
// @Param        to      query     string  false  "Inclusive upper date bound (YYYY-MM-DD)"
// @Param        sortBy  query     string  false  "Sort key: created_at (default), call_time, duration"
// @Param        order   query     string  false  "asc or desc (default desc)"
// @Success      200     {object}  response.Response{data=[]service.CallResponse}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /contacts/{id}/calls [get]
func (h *CallHandler) QueryContactCalls(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid contact id"))
		return
	}

	params := service.CallQueryParams{
		From:   c.Query("from"),
		To:     c.Query("to"),
		SortBy: c.Query("sortBy"),
		Order:  c.Query("order"),
	}

	calls, err := h.callService.QueryByContact(c.Request.Context(), userID, role, contactID, params)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, calls))
}

// ListCalls handles GET /calls
// @Summary      List calls
// @Description  Admins see every call; standard users see only their own
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /calls [get]
func (h *CallHandler) ListCalls(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	params := pagination.Parse(c)

	calls, total, err := h.callService.ListCalls(c.Request.Context(), userID, role, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch calls"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"calls": calls,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetCallByID handles GET /calls/:id
// @Summary      Get call by ID
// @Description  Users can only view their own calls; admins can view all
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call ID"
// @Success      200  {object}  response.Response{data=service.CallResponse}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /calls/{id} [get]
func (h *CallHandler) GetCallByID(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid call id"))
		return
	}

	call, err := h.callService.GetCall(c.Request.Context(), userID, role, id)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, call))
}

// DeleteCall handles DELETE /calls/:id
// @Summary      Delete call
// @Description  Users can delete their own calls; admins can delete any call
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Call ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /calls/{id} [delete]
func (h *CallHandler) DeleteCall(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid call id"))
		return
	}

	if err := h.callService.DeleteCall(c.Request.Context(), userID, role, id); err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Call deleted successfully"))
}
