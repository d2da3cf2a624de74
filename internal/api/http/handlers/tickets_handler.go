package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-admin/internal/api/dto"
	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/service"
	"github.com/spec-kit/ticket-admin/internal/store"
	apperrors "github.com/spec-kit/ticket-admin/pkg/util"
)

const unscopedWarning = "tickets collection has no project column; showing all tickets"

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// List handles GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	sess, err := sessionOrUnauthorized(c)
	if err != nil {
		return err
	}

	tickets, scoped, err := h.service.List(c.UserContext(), sess, parseTicketFilter(c))
	if err != nil {
		return err
	}

	resp := dto.TicketListResponse{Data: dto.FromTickets(tickets)}
	if !scoped && !sess.IsAdmin {
		resp.Warning = unscopedWarning
	}
	return c.JSON(resp)
}

// Stats handles GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	sess, err := sessionOrUnauthorized(c)
	if err != nil {
		return err
	}

	summary, scoped, err := h.service.Summary(c.UserContext(), sess, parseTicketFilter(c))
	if err != nil {
		return err
	}

	warning := ""
	if !scoped && !sess.IsAdmin {
		warning = unscopedWarning
	}
	return c.JSON(fiber.Map{"data": dto.FromSummary(summary, warning)})
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	sess, err := sessionOrUnauthorized(c)
	if err != nil {
		return err
	}

	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), sess, ticketInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Update handles PUT /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	sess, err := sessionOrUnauthorized(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Update(c.UserContext(), sess, id, ticketInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	sess, err := sessionOrUnauthorized(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), sess, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func ticketInput(req dto.TicketRequest) service.TicketInput {
	return service.TicketInput{
		Category:  domain.TicketCategory(req.PhanLoai),
		Platform:  domain.TicketPlatform(req.NenTang),
		Content:   req.NoiDung,
		Priority:  domain.TicketPriority(req.UuTien),
		Status:    domain.TicketStatus(req.TrangThai),
		DueDate:   req.ThoiHanMongMuon,
		Completed: req.NgayHoanThanh,
		Note:      req.GhiChu,
		Link:      req.Link,
	}
}

func parseTicketFilter(c *fiber.Ctx) store.TicketFilter {
	return store.TicketFilter{
		Status:   domain.TicketStatus(c.Query("trang_thai")),
		Priority: domain.TicketPriority(c.Query("uu_tien")),
		Category: domain.TicketCategory(c.Query("phan_loai")),
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}
