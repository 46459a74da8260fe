package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"helpdesk-service/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type UserPerformanceRow struct {
	UserID          uint   `json:"user_id"`
	Name            string `json:"name"`
	RoleName        string `json:"role_name"`
	AssignedTickets int64  `json:"assigned_tickets"`
	ResolvedTickets int64  `json:"resolved_tickets"`
}

// UserPerformance reports, per user with at least one assignment, the total
// assigned and solved ticket counts, busiest user first.
func (r *ReportRepository) UserPerformance(ctx context.Context) ([]UserPerformanceRow, error) {
	var rows []UserPerformanceRow
	err := r.db.WithContext(ctx).
		Table("ticket_assignments ta").
		Select("u.id AS user_id, u.name AS name, r.name AS role_name, COUNT(ta.id) AS assigned_tickets, SUM(CASE WHEN t.status = ? THEN 1 ELSE 0 END) AS resolved_tickets", model.TicketStatusSolved).
		Joins("JOIN users u ON u.id = ta.user_id").
		Joins("JOIN tickets t ON t.id = ta.ticket_id").
		Joins("LEFT JOIN roles r ON r.id = u.role_id").
		Group("u.id, u.name, r.name").
		Order("assigned_tickets DESC").
		Scan(&rows).Error
	return rows, err
}

type ResolutionRow struct {
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// ResolvedDurations returns creation and resolution timestamps for every
// ticket that has been resolved. The average is computed by the caller so
// the query stays portable across dialects.
func (r *ReportRepository) ResolvedDurations(ctx context.Context) ([]ResolutionRow, error) {
	var rows []ResolutionRow
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select("created_at, resolved_at").
		Where("resolved_at IS NOT NULL").
		Scan(&rows).Error
	return rows, err
}

type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

func (r *ReportRepository) countBy(ctx context.Context, column string) ([]LabelCount, error) {
	var rows []LabelCount
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select(column + " AS label, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ReportRepository) CountByCategory(ctx context.Context) ([]LabelCount, error) {
	return r.countBy(ctx, "category")
}

func (r *ReportRepository) CountByStatus(ctx context.Context) ([]LabelCount, error) {
	return r.countBy(ctx, "status")
}

func (r *ReportRepository) CountByPriority(ctx context.Context) ([]LabelCount, error) {
	return r.countBy(ctx, "priority")
}

type FrequentCustomerRow struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	TicketCount  int64  `json:"ticket_count"`
}

// FrequentCustomers returns the top 10 customers with more than one ticket.
func (r *ReportRepository) FrequentCustomers(ctx context.Context) ([]FrequentCustomerRow, error) {
	var rows []FrequentCustomerRow
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select("customer_id, customer_name, COUNT(*) AS ticket_count").
		Group("customer_id, customer_name").
		Having("COUNT(*) > 1").
		Order("ticket_count DESC").
		Limit(10).
		Scan(&rows).Error
	return rows, err
}

type TrendRow struct {
	Status    model.TicketStatus
	CreatedAt time.Time
}

// CreatedSince returns status and creation time for tickets created at or
// after the given instant. Monthly bucketing happens in the service so the
// query avoids dialect-specific date truncation.
func (r *ReportRepository) CreatedSince(ctx context.Context, since time.Time) ([]TrendRow, error) {
	var rows []TrendRow
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select("status, created_at").
		Where("created_at >= ?", since).
		Scan(&rows).Error
	return rows, err
}
