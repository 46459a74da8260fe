package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"helpdesk-service/internal/model"
	"helpdesk-service/internal/repository"
)

type AssignmentService struct {
	assignmentRepo *repository.AssignmentRepository
	ticketRepo     *repository.TicketRepository
	userRepo       *repository.UserRepository
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	ticketRepo *repository.TicketRepository,
	userRepo *repository.UserRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		ticketRepo:     ticketRepo,
		userRepo:       userRepo,
	}
}

// Assign links each given user to the ticket. Users already assigned are
// skipped silently, so repeating the same call is a no-op. A uniqueness
// violation raced in by a concurrent request counts as already assigned.
func (s *AssignmentService) Assign(ctx context.Context, principal model.Principal, ticketID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("%w: at least one user must be selected", ErrInvalidInput)
	}

	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	existing, err := s.userRepo.ExistingIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	for _, userID := range userIDs {
		if !existing[userID] {
			return fmt.Errorf("%w: user %d does not exist", ErrInvalidInput, userID)
		}
	}

	for _, userID := range userIDs {
		assigned, err := s.assignmentRepo.Exists(ctx, ticketID, userID)
		if err != nil {
			return err
		}
		if assigned {
			continue
		}

		assignment := &model.TicketAssignment{
			TicketID:   ticketID,
			UserID:     userID,
			AssignedBy: principal.UserID,
		}
		if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}

	return nil
}

// Unassign removes the user's assignment. Removing a user who is not
// assigned is not an error.
func (s *AssignmentService) Unassign(ctx context.Context, ticketID, userID uint) error {
	return s.assignmentRepo.DeleteByTicketAndUser(ctx, ticketID, userID)
}

func (s *AssignmentService) ListByTicket(ctx context.Context, ticketID uint) ([]model.TicketAssignment, error) {
	if _, err := s.ticketRepo.GetByID(ctx, ticketID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.assignmentRepo.ListByTicketID(ctx, ticketID)
}

// ListUsers returns every responder with their role, for assignment pickers.
func (s *AssignmentService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}
