package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"helpdesk-service/internal/model"
	"helpdesk-service/internal/repository"
	"helpdesk-service/internal/utils"
)

type ReportService struct {
	reportRepo *repository.ReportRepository
	ticketRepo *repository.TicketRepository
}

func NewReportService(reportRepo *repository.ReportRepository, ticketRepo *repository.TicketRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		ticketRepo: ticketRepo,
	}
}

type MonthlyTrend struct {
	Month           string `json:"month"`
	TotalTickets    int64  `json:"total_tickets"`
	ResolvedTickets int64  `json:"resolved_tickets"`
}

type ReportBundle struct {
	UserPerformance      []repository.UserPerformanceRow  `json:"user_performance"`
	AvgResolutionHours   float64                          `json:"avg_resolution_hours"`
	ComplaintTypes       []repository.LabelCount          `json:"complaint_types"`
	FrequentCustomers    []repository.FrequentCustomerRow `json:"frequent_customers"`
	MonthlyTrends        []MonthlyTrend                   `json:"monthly_trends"`
	StatusDistribution   []repository.LabelCount          `json:"status_distribution"`
	PriorityDistribution []repository.LabelCount          `json:"priority_distribution"`
}

// Bundle recomputes every aggregate from the current table state. Nothing
// is cached.
func (s *ReportService) Bundle(ctx context.Context) (*ReportBundle, error) {
	userPerformance, err := s.reportRepo.UserPerformance(ctx)
	if err != nil {
		return nil, err
	}

	avgHours, err := s.avgResolutionHours(ctx)
	if err != nil {
		return nil, err
	}

	complaintTypes, err := s.reportRepo.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	frequentCustomers, err := s.reportRepo.FrequentCustomers(ctx)
	if err != nil {
		return nil, err
	}

	trends, err := s.monthlyTrends(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	statusDistribution, err := s.reportRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	priorityDistribution, err := s.reportRepo.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}

	return &ReportBundle{
		UserPerformance:      userPerformance,
		AvgResolutionHours:   avgHours,
		ComplaintTypes:       complaintTypes,
		FrequentCustomers:    frequentCustomers,
		MonthlyTrends:        trends,
		StatusDistribution:   statusDistribution,
		PriorityDistribution: priorityDistribution,
	}, nil
}

// avgResolutionHours is the mean of (resolved_at - created_at) in hours over
// resolved tickets, rounded to 2 decimals, 0 when nothing has been resolved.
func (s *ReportService) avgResolutionHours(ctx context.Context) (float64, error) {
	rows, err := s.reportRepo.ResolvedDurations(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	var totalHours float64
	for _, row := range rows {
		totalHours += row.ResolvedAt.Sub(row.CreatedAt).Hours()
	}
	avg := totalHours / float64(len(rows))
	return math.Round(avg*100) / 100, nil
}

// monthlyTrends buckets tickets created in the last 12 months by calendar
// month, oldest first.
func (s *ReportService) monthlyTrends(ctx context.Context, now time.Time) ([]MonthlyTrend, error) {
	rows, err := s.reportRepo.CreatedSince(ctx, now.AddDate(0, -12, 0))
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyTrend)
	for _, row := range rows {
		month := row.CreatedAt.Format("2006-01")
		bucket, ok := buckets[month]
		if !ok {
			bucket = &MonthlyTrend{Month: month}
			buckets[month] = bucket
		}
		bucket.TotalTickets++
		if row.Status == model.TicketStatusSolved {
			bucket.ResolvedTickets++
		}
	}

	trends := make([]MonthlyTrend, 0, len(buckets))
	for _, bucket := range buckets {
		trends = append(trends, *bucket)
	}
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Month < trends[j].Month
	})
	return trends, nil
}

type ExportInput struct {
	StartDate string
	EndDate   string
	Status    string
}

const exportDateLayout = "2006-01-02"

var exportHeader = []string{
	"ID", "Customer ID", "Customer Name", "Problem Description", "Priority",
	"Category", "Status", "Created By", "Assigned To", "Created At", "Resolved At",
}

// ExportCSV renders every matching ticket as CSV, most recent first.
// Every field except the numeric id is quoted with embedded quotes doubled.
func (s *ReportService) ExportCSV(ctx context.Context, input ExportInput) ([]byte, string, error) {
	filter := repository.ExportFilter{}

	if input.StartDate != "" {
		start, err := time.Parse(exportDateLayout, input.StartDate)
		if err != nil {
			return nil, "", fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		filter.StartDate = &start
	}
	if input.EndDate != "" {
		end, err := time.Parse(exportDateLayout, input.EndDate)
		if err != nil {
			return nil, "", fmt.Errorf("%w: end_date must be YYYY-MM-DD", ErrInvalidInput)
		}
		filter.EndDate = &end
	}
	if input.Status != "" {
		status := model.TicketStatus(input.Status)
		if !status.Valid() {
			return nil, "", fmt.Errorf("%w: status must be one of New, In Progress, Pending, Cancel, Solved, Investigation", ErrInvalidInput)
		}
		filter.Status = &status
	}

	tickets, err := s.ticketRepo.ListForExport(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteByte('\n')

	for _, ticket := range tickets {
		names := make([]string, 0, len(ticket.Assignments))
		for _, assignment := range ticket.Assignments {
			if assignment.User != nil {
				names = append(names, assignment.User.Name)
			}
		}

		creator := ""
		if ticket.Creator != nil {
			creator = ticket.Creator.Name
		}

		resolvedAt := ""
		if ticket.ResolvedAt != nil {
			resolvedAt = utils.FormatTimestamp(*ticket.ResolvedAt)
		}

		fields := []string{
			utils.QuoteCSV(ticket.CustomerID),
			utils.QuoteCSV(ticket.CustomerName),
			utils.QuoteCSV(ticket.ProblemDescription),
			utils.QuoteCSV(string(ticket.Priority)),
			utils.QuoteCSV(string(ticket.Category)),
			utils.QuoteCSV(string(ticket.Status)),
			utils.QuoteCSV(creator),
			utils.QuoteCSV(strings.Join(names, "; ")),
			utils.QuoteCSV(utils.FormatTimestamp(ticket.CreatedAt)),
			utils.QuoteCSV(resolvedAt),
		}

		b.WriteString(fmt.Sprintf("%d,%s\n", ticket.ID, strings.Join(fields, ",")))
	}

	filename := fmt.Sprintf("tickets_export_%s.csv", time.Now().Format(exportDateLayout))
	return []byte(b.String()), filename, nil
}
