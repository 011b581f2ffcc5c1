package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darum/internal/employee/events"
	"darum/internal/employee/models"
	notifmodels "darum/internal/notification/models"
	notifstore "darum/internal/notification/store/notification"
	"darum/internal/platform/kafka/consumer"
	"darum/internal/platform/metrics"
)

type fakeSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestRouter(t *testing.T, s *fakeSender) (*Router, *notifstore.InMemoryStore) {
	t.Helper()

	store := notifstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router, err := NewRouter(store, s, logger, metrics.New("test"),
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)
	return router, store
}

func message(t *testing.T, topic string, event any) *consumer.Message {
	t.Helper()

	value, err := json.Marshal(event)
	require.NoError(t, err)
	return &consumer.Message{Topic: topic, Key: []byte("EMP-AAAAAA"), Value: value}
}

func TestHandleEmployeeCreated(t *testing.T) {
	snd := &fakeSender{}
	router, store := newTestRouter(t, snd)

	err := router.Handle(context.Background(), message(t, events.TopicEmployeeCreated, events.EmployeeCreated{
		EmployeeCode: "EMP-AAAAAA",
		Email:        "bob@example.com",
		FullName:     "Bob Stone",
		Department:   models.DepartmentSales,
		Position:     "Account Executive",
	}))
	require.NoError(t, err)

	require.Len(t, snd.sent, 1)
	assert.Equal(t, "bob@example.com", snd.sent[0].to)
	assert.Equal(t, "Welcome to the Company!", snd.sent[0].subject)
	assert.Contains(t, snd.sent[0].body, "Hello Bob Stone!")
	assert.Contains(t, snd.sent[0].body, "EMP-AAAAAA")
	assert.Contains(t, snd.sent[0].body, "SALES")

	saved, err := store.ListByRecipient(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, notifmodels.StatusSent, saved[0].Status)
	assert.Equal(t, events.TopicEmployeeCreated, saved[0].Topic)
	assert.NotEmpty(t, saved[0].ID)
}

func TestHandleStatusUpdated(t *testing.T) {
	snd := &fakeSender{}
	router, _ := newTestRouter(t, snd)

	err := router.Handle(context.Background(), message(t, events.TopicEmployeeStatusUpdated, events.EmployeeStatusUpdated{
		EmployeeCode: "EMP-AAAAAA",
		Email:        "bob@example.com",
		FullName:     "Bob Stone",
		OldStatus:    models.StatusActive,
		NewStatus:    models.StatusSuspended,
	}))
	require.NoError(t, err)

	require.Len(t, snd.sent, 1)
	assert.Equal(t, "Account Status Updated", snd.sent[0].subject)
	assert.Contains(t, snd.sent[0].body, "from ACTIVE to SUSPENDED")
}

func TestHandleRoleChanged(t *testing.T) {
	tests := []struct {
		name   string
		action events.RoleChangeAction
		verb   string
	}{
		{name: "grant", action: events.RoleAdded, verb: "granted"},
		{name: "revoke", action: events.RoleRemoved, verb: "revoked"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snd := &fakeSender{}
			router, _ := newTestRouter(t, snd)

			err := router.Handle(context.Background(), message(t, events.TopicRoleChanged, events.RoleChanged{
				EmployeeCode: "EMP-AAAAAA",
				Email:        "bob@example.com",
				FullName:     "Bob Stone",
				Role:         "MANAGER",
				Action:       tt.action,
				ActorEmail:   "admin@example.com",
			}))
			require.NoError(t, err)

			require.Len(t, snd.sent, 1)
			assert.Equal(t, "Role Update", snd.sent[0].subject)
			assert.Contains(t, snd.sent[0].body, "MANAGER has been "+tt.verb)
			assert.Contains(t, snd.sent[0].body, "admin@example.com")
		})
	}
}

func TestHandleSendFailureRecordsFailedRow(t *testing.T) {
	snd := &fakeSender{err: errors.New("smtp down")}
	router, store := newTestRouter(t, snd)

	err := router.Handle(context.Background(), message(t, events.TopicRoleChanged, events.RoleChanged{
		Email:  "bob@example.com",
		Role:   "MANAGER",
		Action: events.RoleAdded,
	}))
	require.Error(t, err)

	saved, err := store.ListByRecipient(context.Background(), "bob@example.com")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, notifmodels.StatusFailed, saved[0].Status)
}

func TestHandleUndecodablePayloadDropped(t *testing.T) {
	snd := &fakeSender{}
	router, store := newTestRouter(t, snd)

	err := router.Handle(context.Background(), &consumer.Message{
		Topic: events.TopicEmployeeCreated,
		Value: []byte("{not json"),
	})
	require.NoError(t, err)

	assert.Empty(t, snd.sent)
	saved, err := store.ListByRecipient(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestHandleUnknownTopicDropped(t *testing.T) {
	snd := &fakeSender{}
	router, _ := newTestRouter(t, snd)

	err := router.Handle(context.Background(), &consumer.Message{Topic: "something-else", Value: []byte("{}")})
	require.NoError(t, err)
	assert.Empty(t, snd.sent)
}
