package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"helpdesk-service/internal/model"
)

// TicketPageSize is the fixed page size for ticket listings.
const TicketPageSize = 10

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetDetails loads a ticket together with its creator and assignment
// provenance (assignee, who assigned, when).
func (r *TicketRepository) GetDetails(ctx context.Context, id uint) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Creator.Role").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_at ASC")
		}).
		Preload("Assignments.User.Role").
		Preload("Assignments.AssignedByUser").
		Where("id = ?", id).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Save(ticket).Error
}

// DeleteWithAssignments removes the ticket and its assignment rows as a
// single transaction so no orphaned assignments survive a partial failure.
func (r *TicketRepository) DeleteWithAssignments(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ticket model.Ticket
		if err := tx.Where("id = ?", id).First(&ticket).Error; err != nil {
			return err
		}
		if err := tx.Where("ticket_id = ?", id).Delete(&model.TicketAssignment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ticket).Error
	})
}

type TicketListFilter struct {
	Status     *model.TicketStatus
	Priority   *model.TicketPriority
	Category   *model.TicketCategory
	AssigneeID *uint
}

func (r *TicketRepository) filtered(ctx context.Context, filter TicketListFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Ticket{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.AssigneeID != nil {
		query = query.Joins("JOIN ticket_assignments ta ON ta.ticket_id = tickets.id").
			Where("ta.user_id = ?", *filter.AssigneeID)
	}

	return query
}

// List returns one page of tickets matching the filter, most recently
// created first, together with the total matching row count.
func (r *TicketRepository) List(ctx context.Context, filter TicketListFilter, page int) ([]model.Ticket, int64, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tickets []model.Ticket
	err := r.filtered(ctx, filter).
		Preload("Creator").
		Order("tickets.created_at DESC").
		Limit(TicketPageSize).
		Offset((page - 1) * TicketPageSize).
		Find(&tickets).Error
	if err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

type TicketSummary struct {
	Total      int64 `json:"total"`
	New        int64 `json:"new"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Urgent     int64 `json:"urgent"`
}

// Summary counts the whole ticket table, independent of any list filter.
func (r *TicketRepository) Summary(ctx context.Context) (*TicketSummary, error) {
	summary := &TicketSummary{}
	db := r.db.WithContext(ctx).Model(&model.Ticket{})

	if err := db.Session(&gorm.Session{}).Count(&summary.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.TicketStatusNew).Count(&summary.New).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.TicketStatusInProgress).Count(&summary.InProgress).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", model.TicketStatusSolved).Count(&summary.Resolved).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("priority = ?", model.TicketPriorityUrgent).Count(&summary.Urgent).Error; err != nil {
		return nil, err
	}

	return summary, nil
}

type ExportFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *model.TicketStatus
}

// ListForExport returns every ticket matching the export filter with creator
// and assignees preloaded, most recently created first.
func (r *TicketRepository) ListForExport(ctx context.Context, filter ExportFilter) ([]model.Ticket, error) {
	query := r.db.WithContext(ctx).Model(&model.Ticket{})

	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		// Inclusive on the calendar date.
		query = query.Where("created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var tickets []model.Ticket
	err := query.
		Preload("Creator").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assigned_at ASC")
		}).
		Preload("Assignments.User").
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
