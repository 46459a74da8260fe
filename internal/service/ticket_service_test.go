package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpdesk-service/internal/model"
	"helpdesk-service/internal/repository"
)

func TestCreateTicket(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	principal := model.Principal{UserID: creator.ID, Name: creator.Name, Role: model.RoleCS}

	t.Run("forces status and creator", func(t *testing.T) {
		ticket, err := ticketService.Create(ctx, principal, validCreateInput())
		require.NoError(t, err)

		assert.NotZero(t, ticket.ID)
		assert.Equal(t, model.TicketStatusNew, ticket.Status)
		assert.Equal(t, creator.ID, ticket.CreatedBy)
		assert.Nil(t, ticket.ResolvedAt)
		assert.False(t, ticket.CreatedAt.IsZero())
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		for _, mutate := range []func(*CreateTicketInput){
			func(in *CreateTicketInput) { in.CustomerID = "" },
			func(in *CreateTicketInput) { in.CustomerName = "" },
			func(in *CreateTicketInput) { in.CustomerAddress = "" },
			func(in *CreateTicketInput) { in.ProblemDescription = "" },
		} {
			input := validCreateInput()
			mutate(&input)
			_, err := ticketService.Create(ctx, principal, input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
	})

	t.Run("rejects out-of-enum values", func(t *testing.T) {
		input := validCreateInput()
		input.Priority = "Critical"
		_, err := ticketService.Create(ctx, principal, input)
		assert.ErrorIs(t, err, ErrInvalidInput)

		input = validCreateInput()
		input.Category = "Mobile"
		_, err = ticketService.Create(ctx, principal, input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestUpdateTicketResolvedAt(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	input := validCreateInput()
	input.Priority = "Urgent"
	ticket, err := ticketService.Create(ctx, principal, input)
	require.NoError(t, err)
	require.Nil(t, ticket.ResolvedAt)

	solved := string(model.TicketStatusSolved)
	before := time.Now()
	updated, err := ticketService.Update(ctx, ticket.ID, UpdateTicketInput{Status: &solved})
	require.NoError(t, err)

	require.NotNil(t, updated.ResolvedAt)
	assert.False(t, updated.ResolvedAt.Before(before))
	firstResolvedAt := *updated.ResolvedAt

	// Re-solving an already solved ticket must not move the timestamp.
	updated, err = ticketService.Update(ctx, ticket.ID, UpdateTicketInput{Status: &solved})
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, firstResolvedAt.Unix(), updated.ResolvedAt.Unix())

	// Moving away from Solved never clears resolved_at.
	cancel := string(model.TicketStatusCancel)
	updated, err = ticketService.Update(ctx, ticket.ID, UpdateTicketInput{Status: &cancel})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusCancel, updated.Status)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, firstResolvedAt.Unix(), updated.ResolvedAt.Unix())
}

func TestUpdateTicketValidation(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticket, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)

	bad := "Escalated"
	_, err = ticketService.Update(ctx, ticket.ID, UpdateTicketInput{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	empty := ""
	_, err = ticketService.Update(ctx, ticket.ID, UpdateTicketInput{CustomerName: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	name := "Alex Mercer"
	_, err = ticketService.Update(ctx, ticket.ID+999, UpdateTicketInput{CustomerName: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	// Partial update leaves other fields untouched.
	updated, err := ticketService.Update(ctx, ticket.ID, UpdateTicketInput{CustomerName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.CustomerName)
	assert.Equal(t, ticket.ProblemDescription, updated.ProblemDescription)
	assert.Equal(t, ticket.Status, updated.Status)
}

func TestDeleteTicketCascade(t *testing.T) {
	db := setupTestDB(t)
	ticketRepo := repository.NewTicketRepository(db)
	ticketService := NewTicketService(ticketRepo)
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	agentOne := seedUser(t, db, "TSO One", "tso1@helpdesk.test", model.RoleTSO)
	agentTwo := seedUser(t, db, "TSO Two", "tso2@helpdesk.test", model.RoleTSO)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	ticketA, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)
	ticketB, err := ticketService.Create(ctx, principal, validCreateInput())
	require.NoError(t, err)

	for _, a := range []model.TicketAssignment{
		{TicketID: ticketA.ID, UserID: agentOne.ID, AssignedBy: creator.ID},
		{TicketID: ticketA.ID, UserID: agentTwo.ID, AssignedBy: creator.ID},
		{TicketID: ticketB.ID, UserID: agentOne.ID, AssignedBy: creator.ID},
	} {
		require.NoError(t, db.Create(&a).Error)
	}

	require.NoError(t, ticketService.Delete(ctx, ticketA.ID))

	var ticketCount, assignmentCount int64
	db.Model(&model.Ticket{}).Count(&ticketCount)
	db.Model(&model.TicketAssignment{}).Count(&assignmentCount)
	assert.Equal(t, int64(1), ticketCount)
	assert.Equal(t, int64(1), assignmentCount)

	var remaining model.TicketAssignment
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, ticketB.ID, remaining.TicketID)

	assert.ErrorIs(t, ticketService.Delete(ctx, ticketA.ID), ErrNotFound)
}

func TestListTickets(t *testing.T) {
	db := setupTestDB(t)
	ticketService := NewTicketService(repository.NewTicketRepository(db))
	ctx := context.Background()

	creator := seedUser(t, db, "CS Agent", "cs@helpdesk.test", model.RoleCS)
	agent := seedUser(t, db, "TSO One", "tso1@helpdesk.test", model.RoleTSO)
	principal := model.Principal{UserID: creator.ID, Role: model.RoleCS}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		input := validCreateInput()
		input.CustomerID = fmt.Sprintf("CUST-%04d", i)
		if i%2 == 0 {
			input.Priority = "Urgent"
		}
		ticket, err := ticketService.Create(ctx, principal, input)
		require.NoError(t, err)

		// Deterministic ordering for the pagination assertions.
		createdAt := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.Model(&model.Ticket{}).Where("id = ?", ticket.ID).
			Update("created_at", createdAt).Error)

		if i < 3 {
			solved := string(model.TicketStatusSolved)
			_, err = ticketService.Update(ctx, ticket.ID, UpdateTicketInput{Status: &solved})
			require.NoError(t, err)
		}
		if i == 4 {
			require.NoError(t, db.Create(&model.TicketAssignment{
				TicketID: ticket.ID, UserID: agent.ID, AssignedBy: creator.ID,
			}).Error)
		}
	}

	t.Run("paginates newest first", func(t *testing.T) {
		list, err := ticketService.List(ctx, principal, ListTicketsInput{Page: 1})
		require.NoError(t, err)

		assert.Len(t, list.Items, 10)
		assert.Equal(t, int64(12), list.Meta.Total)
		assert.Equal(t, 2, list.Meta.TotalPages)
		assert.Equal(t, 10, list.Meta.PageSize)
		assert.True(t, list.Items[0].CreatedAt.After(list.Items[1].CreatedAt))

		second, err := ticketService.List(ctx, principal, ListTicketsInput{Page: 2})
		require.NoError(t, err)
		assert.Len(t, second.Items, 2)
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		list, err := ticketService.List(ctx, principal, ListTicketsInput{
			Status:   string(model.TicketStatusSolved),
			Priority: string(model.TicketPriorityUrgent),
		})
		require.NoError(t, err)

		// Tickets 0 and 2 are both solved and urgent; ticket 1 is solved only.
		assert.Equal(t, int64(2), list.Meta.Total)
		for _, item := range list.Items {
			assert.Equal(t, model.TicketStatusSolved, item.Status)
			assert.Equal(t, model.TicketPriorityUrgent, item.Priority)
		}
	})

	t.Run("mine filter restricts to assignee", func(t *testing.T) {
		agentPrincipal := model.Principal{UserID: agent.ID, Role: model.RoleTSO}
		list, err := ticketService.List(ctx, agentPrincipal, ListTicketsInput{Mine: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), list.Meta.Total)
	})

	t.Run("summary ignores filters", func(t *testing.T) {
		list, err := ticketService.List(ctx, principal, ListTicketsInput{
			Status: string(model.TicketStatusSolved),
		})
		require.NoError(t, err)

		require.NotNil(t, list.Summary)
		assert.Equal(t, int64(12), list.Summary.Total)
		assert.Equal(t, int64(9), list.Summary.New)
		assert.Equal(t, int64(3), list.Summary.Resolved)
		assert.Equal(t, int64(6), list.Summary.Urgent)
		assert.Equal(t, int64(0), list.Summary.InProgress)
	})
}
