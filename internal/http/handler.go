package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpdesk-service/internal/http/middleware"
	"helpdesk-service/internal/model"
	"helpdesk-service/internal/service"
)

type Handler struct {
	ticketService     *service.TicketService
	assignmentService *service.AssignmentService
	reportService     *service.ReportService
	log               zerolog.Logger
}

func NewHandler(
	ticketService *service.TicketService,
	assignmentService *service.AssignmentService,
	reportService *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		ticketService:     ticketService,
		assignmentService: assignmentService,
		reportService:     reportService,
		log:               log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/")
	protected.Use(authMiddleware)

	tickets := protected.Group("/tickets")
	{
		tickets.GET("", h.listTickets)
		// Ticket intake is a CS/NOC responsibility.
		tickets.POST("", middleware.RequireRoles(model.RoleCS, model.RoleNOC), h.createTicket)
		tickets.GET("/:id", h.getTicket)
		tickets.PUT("/:id", h.updateTicket)
		tickets.DELETE("/:id", h.deleteTicket)
		tickets.GET("/:id/assignments", h.listAssignments)
		tickets.POST("/:id/assignments", h.assignUsers)
		tickets.DELETE("/:id/assignments/:userID", h.unassignUser)
	}

	protected.GET("/users", h.listUsers)

	reports := protected.Group("/reports")
	{
		reports.GET("", h.getReports)
		reports.GET("/export", h.exportCSV)
	}
}

func (h *Handler) createTicket(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		CustomerID         string `json:"customer_id" binding:"required"`
		CustomerName       string `json:"customer_name" binding:"required"`
		CustomerAddress    string `json:"customer_address" binding:"required"`
		ProblemDescription string `json:"problem_description" binding:"required"`
		Priority           string `json:"priority" binding:"required"`
		Category           string `json:"category" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), principal, service.CreateTicketInput{
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		CustomerAddress:    req.CustomerAddress,
		ProblemDescription: req.ProblemDescription,
		Priority:           req.Priority,
		Category:           req.Category,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(ticket))
}

func (h *Handler) getTicket(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(ticket))
}

func (h *Handler) updateTicket(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	var req struct {
		CustomerID         *string `json:"customer_id"`
		CustomerName       *string `json:"customer_name"`
		CustomerAddress    *string `json:"customer_address"`
		ProblemDescription *string `json:"problem_description"`
		Priority           *string `json:"priority"`
		Category           *string `json:"category"`
		Status             *string `json:"status"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	ticket, err := h.ticketService.Update(c.Request.Context(), id, service.UpdateTicketInput{
		CustomerID:         req.CustomerID,
		CustomerName:       req.CustomerName,
		CustomerAddress:    req.CustomerAddress,
		ProblemDescription: req.ProblemDescription,
		Priority:           req.Priority,
		Category:           req.Category,
		Status:             req.Status,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(ticket))
}

func (h *Handler) deleteTicket(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	if err := h.ticketService.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) listTickets(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	input := service.ListTicketsInput{
		Status:   strings.TrimSpace(c.Query("status")),
		Priority: strings.TrimSpace(c.Query("priority")),
		Category: strings.TrimSpace(c.Query("category")),
	}

	if mine := strings.TrimSpace(c.Query("mine")); mine != "" {
		input.Mine, _ = strconv.ParseBool(mine)
	}
	if page := strings.TrimSpace(c.Query("page")); page != "" {
		input.Page, _ = strconv.Atoi(page)
	}

	list, err := h.ticketService.List(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(list))
}

func (h *Handler) listAssignments(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByTicket(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(assignments))
}

func (h *Handler) assignUsers(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	var req struct {
		UserIDs []uint `json:"user_ids" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.assignmentService.Assign(c.Request.Context(), principal, id, req.UserIDs); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"message": "ticket assigned"}))
}

func (h *Handler) unassignUser(c *gin.Context) {
	id, ok := ticketIDParam(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(strings.TrimSpace(c.Param("userID")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid user id"))
		return
	}

	if err := h.assignmentService.Unassign(c.Request.Context(), id, uint(userID)); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"message": "assignment removed"}))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.assignmentService.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(users))
}

func (h *Handler) getReports(c *gin.Context) {
	bundle, err := h.reportService.Bundle(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(bundle))
}

func (h *Handler) exportCSV(c *gin.Context) {
	input := service.ExportInput{
		StartDate: strings.TrimSpace(c.Query("start_date")),
		EndDate:   strings.TrimSpace(c.Query("end_date")),
		Status:    strings.TrimSpace(c.Query("status")),
	}

	data, filename, err := h.reportService.ExportCSV(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

func ticketIDParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid ticket id"))
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
