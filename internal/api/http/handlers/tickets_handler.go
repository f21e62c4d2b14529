package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/helpdeskhq/helpdesk-service/internal/api/dto"
	"github.com/helpdeskhq/helpdesk-service/internal/auth"
	"github.com/helpdeskhq/helpdesk-service/internal/domain"
	"github.com/helpdeskhq/helpdesk-service/internal/service"
	apperrors "github.com/helpdeskhq/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, assignments *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, assignments: assignments}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.CreateTicket(c.UserContext(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListTickets(c.UserContext(), actor)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	ticket, comments, err := h.tickets.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	detail := dto.TicketDetailResponse{
		TicketResponse: ticketResponse(ticket),
		Comments:       make([]dto.CommentResponse, 0, len(comments)),
	}
	for i := range comments {
		detail.Comments = append(detail.Comments, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": detail})
}

// EditTicket PUT /tickets/:id.
func (h *TicketsHandler) EditTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.EditTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.EditContent(c.UserContext(), actor, c.Params("id"), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.ChangeStatus(c.UserContext(), actor, c.Params("id"), domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ChangePriority POST /tickets/:id/priority.
func (h *TicketsHandler) ChangePriority(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.ChangePriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.ChangePriority(c.UserContext(), actor, c.Params("id"), req.PriorityID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Assign POST /tickets/:id/assign (admin path).
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssigneeID == "" {
		return apperrors.NewValidationError("assignee_id required", nil)
	}
	ticket, err := h.assignments.Assign(c.UserContext(), actor, c.Params("id"), req.AssigneeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Take POST /tickets/:id/take (support self-assign).
func (h *TicketsHandler) Take(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	ticket, err := h.assignments.Take(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.tickets.AddComment(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListPriorities GET /priorities.
func (h *TicketsHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.tickets.ListPriorities(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PriorityResponse, 0, len(priorities))
	for _, priority := range priorities {
		items = append(items, dto.PriorityResponse{ID: priority.ID, Name: priority.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListCategories GET /categories.
func (h *TicketsHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.tickets.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, dto.CategoryResponse{ID: category.ID, Name: category.Name})
	}
	return c.JSON(fiber.Map{"data": items})
}

func requireActor(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Actor, nil
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		CategoryID:   ticket.CategoryID,
		PriorityID:   ticket.PriorityID,
		Status:       ticket.Status,
		OwnerID:      ticket.OwnerID,
		AssignedToID: ticket.AssignedToID,
		CreatedAt:    ticket.CreatedAt,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
