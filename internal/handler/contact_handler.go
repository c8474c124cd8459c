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

type ContactHandler struct {
	contactService service.ContactService
	tokens         service.TokenService
}

func NewContactHandler(contactService service.ContactService, tokens service.TokenService) *ContactHandler {
	return &ContactHandler{contactService: contactService, tokens: tokens}
}

// RegisterRoutes binds the contact endpoints; every route requires a valid
// access token.
func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup) {
	contacts := router.Group("/contacts", middleware.RequireAuth(h.tokens))
	{
		contacts.GET("", h.ListContacts)
		contacts.GET("/locked", h.ListLockedContacts)
		contacts.GET("/:id", h.GetContactByID)
		contacts.POST("", h.CreateContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.PATCH("/:id/status", h.UpdateContactStatus)
		contacts.DELETE("/:id", h.DeleteContact)
	}
}

// CreateContact handles POST /contacts
// @Summary      Create contact
// @Description  Creates a new contact owned by the caller, starting in status New
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateContactRequest  true  "Create Contact Payload"
// @Success      201      {object}  response.Response{data=model.Contact}
// @Failure      400      {object}  response.Response
// @Router       /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), userID, req)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contact))
}

// ListContacts handles GET /contacts
// @Summary      List contacts
// @Description  Retrieves a paginated list of contacts, optionally filtered by name
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Param        search  query     string  false  "Name filter"
// @Success      200     {object}  response.Response{data=object}
// @Router       /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	params := pagination.Parse(c)
	search := c.Query("search")

	contacts, total, err := h.contactService.ListContacts(c.Request.Context(), params.Page, params.Limit, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch contacts"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"contacts": contacts,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// ListLockedContacts handles GET /contacts/locked
// @Summary      List locked contacts
// @Description  Retrieves contacts currently under an exclusive lock
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Contact}
// @Router       /contacts/locked [get]
func (h *ContactHandler) ListLockedContacts(c *gin.Context) {
	contacts, err := h.contactService.ListLockedContacts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch locked contacts"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contacts))
}

// GetContactByID handles GET /contacts/:id
// @Summary      Get contact by ID
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Contact ID"
// @Success      200  {object}  response.Response{data=model.Contact}
// @Failure      404  {object}  response.Response
// @Router       /contacts/{id} [get]
func (h *ContactHandler) GetContactByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid contact id"))
		return
	}

	contact, err := h.contactService.GetContactByID(c.Request.Context(), id)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// UpdateContact handles PUT /contacts/:id
// @Summary      Update contact
// @Description  Updates contact fields; status is not editable here
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Contact ID"
// @Param        payload  body      service.UpdateContactRequest  true  "Update Contact Payload"
// @Success      200      {object}  response.Response{data=model.Contact}
// @Failure      400      {object}  response.Response
// @Router       /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid contact id"))
		return
	}

	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), userID, role, id, req)
	if err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// UpdateContactStatus handles PATCH /contacts/:id/status
// @Summary      Set contact status
// @Description  Directly sets a contact's status, honouring the exclusive-lock workflow
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string                              true  "Contact ID"
// @Param        payload  body   service.UpdateContactStatusRequest  true  "Status Payload"
// @Success      204
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /contacts/{id}/status [patch]
func (h *ContactHandler) UpdateContactStatus(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid contact id"))
		return
	}

	var req service.UpdateContactStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if err := h.contactService.UpdateStatus(c.Request.Context(), userID, role, id, req); err != nil {
		abortServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteContact handles DELETE /contacts/:id
// @Summary      Delete contact
// @Description  Deletes a contact; requires cascade=true when the contact has recorded calls
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id       path   string  true   "Contact ID"
// @Param        cascade  query  bool    false  "Also delete the contact's calls"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid contact id"))
		return
	}

	cascade := c.Query("cascade") == "true"

	if err := h.contactService.DeleteContact(c.Request.Context(), userID, role, id, cascade); err != nil {
		abortServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Contact deleted successfully"))
}
