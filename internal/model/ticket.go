package model

import (
	"time"
)

type TicketStatus string

const (
	TicketStatusNew           TicketStatus = "New"
	TicketStatusInProgress    TicketStatus = "In Progress"
	TicketStatusPending       TicketStatus = "Pending"
	TicketStatusCancel        TicketStatus = "Cancel"
	TicketStatusSolved        TicketStatus = "Solved"
	TicketStatusInvestigation TicketStatus = "Investigation"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusNew, TicketStatusInProgress, TicketStatusPending,
		TicketStatusCancel, TicketStatusSolved, TicketStatusInvestigation:
		return true
	default:
		return false
	}
}

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	default:
		return false
	}
}

type TicketCategory string

const (
	TicketCategoryBroadband TicketCategory = "Broadband"
	TicketCategoryDedicated TicketCategory = "Dedicated"
	TicketCategoryReseller  TicketCategory = "Reseller"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryBroadband, TicketCategoryDedicated, TicketCategoryReseller:
		return true
	default:
		return false
	}
}

type Ticket struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CustomerID         string         `gorm:"type:varchar(255);not null;index" json:"customer_id"`
	CustomerName       string         `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerAddress    string         `gorm:"type:text;not null" json:"customer_address"`
	ProblemDescription string         `gorm:"type:text;not null" json:"problem_description"`
	Priority           TicketPriority `gorm:"type:varchar(16);not null;default:Medium;index" json:"priority"`
	Category           TicketCategory `gorm:"type:varchar(16);not null;index" json:"category"`
	Status             TicketStatus   `gorm:"type:varchar(16);not null;default:New;index" json:"status"`
	CreatedBy          uint           `gorm:"not null;index" json:"created_by"`
	ResolvedAt         *time.Time     `json:"resolved_at"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	Creator     *User              `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Assignments []TicketAssignment `gorm:"foreignKey:TicketID" json:"assignments,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}
