package model

import (
	"time"

	"gorm.io/gorm"
)

// TicketAssignment links a responder user to a ticket. The pair
// (ticket_id, user_id) is unique; duplicate assignment attempts are
// resolved by the constraint, not by the application.
type TicketAssignment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TicketID   uint      `gorm:"not null;uniqueIndex:idx_ticket_assignments_ticket_user;index" json:"ticket_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_ticket_assignments_ticket_user;index" json:"user_id"`
	AssignedBy uint      `gorm:"not null;index" json:"assigned_by"`
	AssignedAt time.Time `gorm:"not null;index" json:"assigned_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	User           *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AssignedByUser *User `gorm:"foreignKey:AssignedBy" json:"assigned_by_user,omitempty"`
}

func (TicketAssignment) TableName() string {
	return "ticket_assignments"
}

func (ta *TicketAssignment) BeforeCreate(tx *gorm.DB) error {
	if ta.AssignedAt.IsZero() {
		ta.AssignedAt = time.Now()
	}
	return nil
}
