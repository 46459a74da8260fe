package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk-service/internal/model"
	"helpdesk-service/internal/repository"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
)

type TicketService struct {
	ticketRepo *repository.TicketRepository
}

func NewTicketService(ticketRepo *repository.TicketRepository) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
	}
}

type CreateTicketInput struct {
	CustomerID         string
	CustomerName       string
	CustomerAddress    string
	ProblemDescription string
	Priority           string
	Category           string
}

// Create stores a new ticket. Status is always New and created_by is always
// the acting user, regardless of caller-supplied values.
func (s *TicketService) Create(ctx context.Context, principal model.Principal, input CreateTicketInput) (*model.Ticket, error) {
	if input.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
	}
	if input.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
	}
	if input.CustomerAddress == "" {
		return nil, fmt.Errorf("%w: customer_address is required", ErrInvalidInput)
	}
	if input.ProblemDescription == "" {
		return nil, fmt.Errorf("%w: problem_description is required", ErrInvalidInput)
	}

	priority := model.TicketPriority(input.Priority)
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: priority must be one of Low, Medium, High, Urgent", ErrInvalidInput)
	}

	category := model.TicketCategory(input.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: category must be one of Broadband, Dedicated, Reseller", ErrInvalidInput)
	}

	ticket := &model.Ticket{
		CustomerID:         input.CustomerID,
		CustomerName:       input.CustomerName,
		CustomerAddress:    input.CustomerAddress,
		ProblemDescription: input.ProblemDescription,
		Priority:           priority,
		Category:           category,
		Status:             model.TicketStatusNew,
		CreatedBy:          principal.UserID,
	}

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

func (s *TicketService) Get(ctx context.Context, id uint) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetDetails(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ticket, nil
}

type UpdateTicketInput struct {
	CustomerID         *string
	CustomerName       *string
	CustomerAddress    *string
	ProblemDescription *string
	Priority           *string
	Category           *string
	Status             *string
}

// Update applies a partial update. When status changes into Solved from any
// other value, resolved_at is stamped in the same write. resolved_at is
// never cleared, even when status later moves away from Solved.
func (s *TicketService) Update(ctx context.Context, id uint, input UpdateTicketInput) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.CustomerID != nil {
		if *input.CustomerID == "" {
			return nil, fmt.Errorf("%w: customer_id is required", ErrInvalidInput)
		}
		ticket.CustomerID = *input.CustomerID
	}
	if input.CustomerName != nil {
		if *input.CustomerName == "" {
			return nil, fmt.Errorf("%w: customer_name is required", ErrInvalidInput)
		}
		ticket.CustomerName = *input.CustomerName
	}
	if input.CustomerAddress != nil {
		if *input.CustomerAddress == "" {
			return nil, fmt.Errorf("%w: customer_address is required", ErrInvalidInput)
		}
		ticket.CustomerAddress = *input.CustomerAddress
	}
	if input.ProblemDescription != nil {
		if *input.ProblemDescription == "" {
			return nil, fmt.Errorf("%w: problem_description is required", ErrInvalidInput)
		}
		ticket.ProblemDescription = *input.ProblemDescription
	}
	if input.Priority != nil {
		priority := model.TicketPriority(*input.Priority)
		if !priority.Valid() {
			return nil, fmt.Errorf("%w: priority must be one of Low, Medium, High, Urgent", ErrInvalidInput)
		}
		ticket.Priority = priority
	}
	if input.Category != nil {
		category := model.TicketCategory(*input.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("%w: category must be one of Broadband, Dedicated, Reseller", ErrInvalidInput)
		}
		ticket.Category = category
	}
	if input.Status != nil {
		status := model.TicketStatus(*input.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: status must be one of New, In Progress, Pending, Cancel, Solved, Investigation", ErrInvalidInput)
		}
		if status == model.TicketStatusSolved && ticket.Status != model.TicketStatusSolved {
			now := time.Now()
			ticket.ResolvedAt = &now
		}
		ticket.Status = status
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	return ticket, nil
}

func (s *TicketService) Delete(ctx context.Context, id uint) error {
	err := s.ticketRepo.DeleteWithAssignments(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

type ListTicketsInput struct {
	Status   string
	Priority string
	Category string
	Mine     bool
	Page     int
}

type PageMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type TicketList struct {
	Items   []model.Ticket            `json:"items"`
	Meta    PageMeta                  `json:"meta"`
	Summary *repository.TicketSummary `json:"summary"`
}

// List returns one page of tickets plus a summary over the whole ticket
// pool. The summary does not react to the list filters.
func (s *TicketService) List(ctx context.Context, principal model.Principal, input ListTicketsInput) (*TicketList, error) {
	filter := repository.TicketListFilter{}

	if input.Status != "" {
		status := model.TicketStatus(input.Status)
		filter.Status = &status
	}
	if input.Priority != "" {
		priority := model.TicketPriority(input.Priority)
		filter.Priority = &priority
	}
	if input.Category != "" {
		category := model.TicketCategory(input.Category)
		filter.Category = &category
	}
	if input.Mine {
		userID := principal.UserID
		filter.AssigneeID = &userID
	}

	page := input.Page
	if page < 1 {
		page = 1
	}

	items, total, err := s.ticketRepo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	summary, err := s.ticketRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + repository.TicketPageSize - 1) / repository.TicketPageSize)

	return &TicketList{
		Items: items,
		Meta: PageMeta{
			Page:       page,
			PageSize:   repository.TicketPageSize,
			Total:      total,
			TotalPages: totalPages,
		},
		Summary: summary,
	}, nil
}
