package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/yoojob/internal/models"
	"github.com/yoockh/yoojob/internal/utils"
)

func TestMessageService_SendValidation(t *testing.T) {
	db, r := newRepos(t)
	alice := seedProfile(t, db, models.RoleCandidate, "Alice")
	svc := NewMessageService(&memMessages{}, r.profiles, nil)

	_, err := svc.Send(ctx(), alice.ID, "", "hello")
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = svc.Send(ctx(), alice.ID, "someone", "   ")
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = svc.Send(ctx(), alice.ID, alice.ID, "me")
	requireCode(t, err, utils.CodeInvalidArgument)

	_, err = svc.Send(ctx(), alice.ID, "ghost", "hello")
	requireCode(t, err, utils.CodeNotFound)

	_, err = svc.Send(ctx(), alice.ID, "someone", strings.Repeat("é", MaxMessageLength+1))
	requireCode(t, err, utils.CodeInvalidArgument)
}

func TestMessageService_SendBroadcasts(t *testing.T) {
	db, r := newRepos(t)
	alice := seedProfile(t, db, models.RoleCandidate, "Alice")
	bob := seedProfile(t, db, models.RoleRecruiter, "Bob")
	store := &memMessages{}
	bus := &recordingBus{}
	svc := NewMessageService(store, r.profiles, bus)

	m, err := svc.Send(ctx(), alice.ID, bob.ID, "  Bonjour, le poste est-il toujours ouvert ?  ")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour, le poste est-il toujours ouvert ?", m.Body)
	assert.Equal(t, models.ConversationID(bob.ID, alice.ID), m.ConversationID)
	assert.False(t, m.ID.IsZero())
	require.Len(t, bus.messages, 1)

	bus.fail = errBoom
	_, err = svc.Send(ctx(), bob.ID, alice.ID, "Oui")
	require.NoError(t, err)
	assert.Len(t, store.rows, 2)
}

func TestMessageService_ConversationsAndRead(t *testing.T) {
	db, r := newRepos(t)
	alice := seedProfile(t, db, models.RoleCandidate, "Alice")
	bob := seedProfile(t, db, models.RoleRecruiter, "Bob")
	carol := seedProfile(t, db, models.RoleRecruiter, "Carol")
	store := &memMessages{}
	svc := NewMessageService(store, r.profiles, nil)

	_, err := svc.Send(ctx(), bob.ID, alice.ID, "Bonjour Alice")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Send(ctx(), carol.ID, alice.ID, "Entretien demain ?")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	_, err = svc.Send(ctx(), carol.ID, alice.ID, "10h ?")
	require.NoError(t, err)

	convs, err := svc.Conversations(ctx(), alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, carol.ID, convs[0].OtherUserID)
	require.NotNil(t, convs[0].Other)
	assert.Equal(t, "Carol", convs[0].Other.FullName)
	assert.Equal(t, "10h ?", convs[0].LastMessage.Body)
	assert.Equal(t, int64(2), convs[0].Unread)

	n, err := svc.UnreadCount(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	marked, err := svc.MarkThreadRead(ctx(), alice.ID, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	n, err = svc.UnreadCount(ctx(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	thread, err := svc.Thread(ctx(), carol.ID, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "Entretien demain ?", thread[0].Body)

	empty, err := svc.Thread(ctx(), bob.ID, carol.ID, 10)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
