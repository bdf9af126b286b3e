//go:build integration
// +build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/audit"
	"github.com/auradentalai/agentic-dentist-api/internal/domain/workspace"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEvent(workspaceID, action string) *audit.Event {
	return &audit.Event{
		ID:              uuid.NewString(),
		WorkspaceID:     workspaceID,
		ActorType:       audit.ActorAgent,
		ActorID:         "concierge",
		Action:          action,
		ResourceType:    "appointment",
		ResourceID:      uuid.NewString(),
		Metadata:        map[string]string{"channel": "voice"},
		DateTimeCreated: time.Now().UTC(),
	}
}

func TestAuditRepository_RecordAndList(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()

	workspaceID := uuid.NewString()
	first := newTestEvent(workspaceID, "appointment_booked")
	second := newTestEvent(workspaceID, "appointment_cancelled")
	second.DateTimeCreated = first.DateTimeCreated.Add(time.Second)

	require.NoError(t, tc.AuditRepo.Record(ctx, first))
	require.NoError(t, tc.AuditRepo.Record(ctx, second))
	require.NoError(t, tc.AuditRepo.Record(ctx, newTestEvent(uuid.NewString(), "appointment_booked")))

	events, err := tc.AuditRepo.ListByWorkspace(ctx, workspaceID, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "appointment_cancelled", events[0].Action, "newest first")
	assert.Equal(t, "appointment_booked", events[1].Action)
	assert.Equal(t, "voice", events[0].Metadata["channel"])
}

func TestAuditRepository_Record_InvalidEvent(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)

	event := newTestEvent(uuid.NewString(), "appointment_booked")
	event.ActorType = "robot"
	assert.Error(t, tc.AuditRepo.Record(context.Background(), event))
}

func TestMembershipRepository_GetActive(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)
	ctx := context.Background()

	profileID := uuid.NewString()
	workspaceID := uuid.NewString()
	membership := CreateTestMembership(t, profileID, workspaceID)
	require.NoError(t, tc.MembershipRepo.Create(ctx, membership))

	fetched, err := tc.MembershipRepo.GetActive(ctx, profileID, workspaceID)
	require.NoError(t, err)
	assert.Equal(t, membership.ID, fetched.ID)
	assert.Equal(t, workspace.StatusActive, fetched.Status)
}

func TestMembershipRepository_GetActive_NotAMember(t *testing.T) {
	tc := SetupTestDB(t, config.SqliteDbType)

	_, err := tc.MembershipRepo.GetActive(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, workspace.ErrNotAMember)
}
