package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"helpdesk-service/internal/model"
	"helpdesk-service/internal/repository"
)

func newAssignmentService(db *gorm.DB) *AssignmentService {
	return NewAssignmentService(
		repository.NewAssignmentRepository(db),
		repository.NewTicketRepository(db),
		repository.NewUserRepository(db),
	)
}

func TestAssignUsers(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	assignmentService := newAssignmentService(db)
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	agentOne := seedUser(t, db, "TSO One", "tso1@helpdesk.test", model.RoleTSO)
	agentTwo := seedUser(t, db, "NOC One", "noc1@helpdesk.test", model.RoleNOC)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticket, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)

	userIDs := []uint{agentOne.ID, agentTwo.ID}
	require.NoError(t, assignmentService.Assign(ctx, principal, ticket.ID, userIDs))

	var assignments []model.TicketAssignment
	require.NoError(t, db.Where("ticket_id = ?", ticket.ID).Find(&assignments).Error)
	require.Len(t, assignments, 2)
	for _, a := range assignments {
		assert.Equal(t, creator.ID, a.AssignedBy)
		assert.False(t, a.AssignedAt.IsZero())
	}

	// Repeating the exact same call must not add rows.
	require.NoError(t, assignmentService.Assign(ctx, principal, ticket.ID, userIDs))

	var count int64
	db.Model(&model.TicketAssignment{}).Where("ticket_id = ?", ticket.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	// A partially overlapping call only adds the new user.
	require.NoError(t, assignmentService.Assign(ctx, principal, ticket.ID, []uint{agentOne.ID, creator.ID}))
	db.Model(&model.TicketAssignment{}).Where("ticket_id = ?", ticket.ID).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestAssignValidation(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	assignmentService := newAssignmentService(db)
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticket, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)

	assert.ErrorIs(t, assignmentService.Assign(ctx, principal, ticket.ID, nil), ErrInvalidInput)
	assert.ErrorIs(t, assignmentService.Assign(ctx, principal, ticket.ID, []uint{creator.ID, 9999}), ErrInvalidInput)
	assert.ErrorIs(t, assignmentService.Assign(ctx, principal, ticket.ID+999, []uint{creator.ID}), ErrNotFound)

	// Nothing partially applied by the rejected calls.
	var count int64
	db.Model(&model.TicketAssignment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAssignmentUniqueConstraint(t *testing.T) {
	db := setupTestDB(t)
	assignmentRepo := repository.NewAssignmentRepository(db)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	agent := seedUser(t, db, "TSO One", "tso1@helpdesk.test", model.RoleTSO)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticket, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)

	first := model.TicketAssignment{TicketID: ticket.ID, UserID: agent.ID, AssignedBy: creator.ID}
	require.NoError(t, assignmentRepo.Create(ctx, &first))

	// The constraint, not the application check, is the source of truth
	// under concurrent assignment attempts.
	duplicate := model.TicketAssignment{TicketID: ticket.ID, UserID: agent.ID, AssignedBy: creator.ID}
	err = assignmentRepo.Create(ctx, &duplicate)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUnassign(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	assignmentService := newAssignmentService(db)
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	agent := seedUser(t, db, "TSO One", "tso1@helpdesk.test", model.RoleTSO)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticket, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)
	require.NoError(t, assignmentService.Assign(ctx, principal, ticket.ID, []uint{agent.ID}))

	require.NoError(t, assignmentService.Unassign(ctx, ticket.ID, agent.ID))

	var count int64
	db.Model(&model.TicketAssignment{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Unassigning a user who is not assigned is a no-op, not an error.
	assert.NoError(t, assignmentService.Unassign(ctx, ticket.ID, agent.ID))
	assert.NoError(t, assignmentService.Unassign(ctx, ticket.ID, 9999))
}

func TestListByTicket(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	assignmentService := newAssignmentService(db)
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	agent := seedUser(t, db, "TSO One", "tso1@helpdesk.test", model.RoleTSO)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticket, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)
	require.NoError(t, assignmentService.Assign(ctx, principal, ticket.ID, []uint{agent.ID}))

	assignments, err := assignmentService.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	require.NotNil(t, assignments[0].User)
	assert.Equal(t, agent.Name, assignments[0].User.Name)
	require.NotNil(t, assignments[0].AssignedByUser)
	assert.Equal(t, creator.Name, assignments[0].AssignedByUser.Name)

	_, err = assignmentService.ListByTicket(ctx, ticket.ID+999)
	assert.ErrorIs(t, err, ErrNotFound)
}
