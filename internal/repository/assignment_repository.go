package repository

import (
	"context"

	"gorm.io/gorm"

	"helpdesk-service/internal/model"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *model.TicketAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *AssignmentRepository) Exists(ctx context.Context, ticketID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TicketAssignment{}).
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteByTicketAndUser removes the matching assignment if present. A
// missing row is not an error.
func (r *AssignmentRepository) DeleteByTicketAndUser(ctx context.Context, ticketID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		Delete(&model.TicketAssignment{}).Error
}

func (r *AssignmentRepository) ListByTicketID(ctx context.Context, ticketID uint) ([]model.TicketAssignment, error) {
	var assignments []model.TicketAssignment
	err := r.db.WithContext(ctx).
		Preload("User.Role").
		Preload("AssignedByUser").
		Where("ticket_id = ?", ticketID).
		Order("assigned_at ASC").
		Find(&assignments).Error
	return assignments, err
}
