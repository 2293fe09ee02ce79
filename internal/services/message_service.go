package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yoockh/yoojob/internal/events"
	"github.com/yoockh/yoojob/internal/models"
	mongorepo "github.com/yoockh/yoojob/internal/repositories/mongo"
	pgrepo "github.com/yoockh/yoojob/internal/repositories/postgres"
	"github.com/yoockh/yoojob/internal/utils"
)

const MaxMessageLength = 4000

type MessageService interface {
	Send(ctx context.Context, senderID, recipientID, body string) (*models.Message, error)
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
	Thread(ctx context.Context, userID, otherID string, limit int64) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, userID, otherID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type messageService struct {
	messages mongorepo.MessageRepository
	profiles pgrepo.ProfileRepository
	bus      events.Broadcaster
}

func NewMessageService(messages mongorepo.MessageRepository, profiles pgrepo.ProfileRepository, bus events.Broadcaster) MessageService {
	if bus == nil {
		bus = events.Nop{}
	}
	return &messageService{messages: messages, profiles: profiles, bus: bus}
}

func (s *messageService) Send(ctx context.Context, senderID, recipientID, body string) (*models.Message, error) {
	const op = "MessageService.Send"

	body = strings.TrimSpace(body)
	if senderID == "" || recipientID == "" || body == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "recipient and body are required", nil)
	}
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return nil, utils.E(utils.CodeInvalidArgument, op, "message is too long", nil)
	}
	if senderID == recipientID {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cannot message yourself", nil)
	}

	ok, err := s.profiles.Exists(ctx, recipientID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check recipient", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "recipient not found", nil)
	}

	m := &models.Message{
		ConversationID: models.ConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    recipientID,
		Body:           body,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, m); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store message", err)
	}

	// live delivery is best effort; the inbox query is the source of truth
	_ = s.bus.BroadcastMessage(ctx, m)
	return m, nil
}

func (s *messageService) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	const op = "MessageService.Conversations"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	convs, err := s.messages.Conversations(ctx, userID, 0)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list conversations", err)
	}

	ids := make([]string, 0, len(convs))
	for i := range convs {
		other := convs[i].LastMessage.SenderID
		if other == userID {
			other = convs[i].LastMessage.RecipientID
		}
		convs[i].OtherUserID = other
		ids = append(ids, other)
	}

	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load participants", err)
	}
	byID := make(map[string]models.ProfileSummary, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = profiles[i].Summary()
	}
	for i := range convs {
		if sum, ok := byID[convs[i].OtherUserID]; ok {
			convs[i].Other = &sum
		}
	}

	if convs == nil {
		convs = []models.Conversation{}
	}
	return convs, nil
}

func (s *messageService) Thread(ctx context.Context, userID, otherID string, limit int64) ([]models.Message, error) {
	const op = "MessageService.Thread"

	if userID == "" || otherID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and other user are required", nil)
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := s.messages.ListThread(ctx, models.ConversationID(userID, otherID), limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list messages", err)
	}
	if rows == nil {
		rows = []models.Message{}
	}
	return rows, nil
}

func (s *messageService) MarkThreadRead(ctx context.Context, userID, otherID string) (int64, error) {
	const op = "MessageService.MarkThreadRead"

	if userID == "" || otherID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id and other user are required", nil)
	}
	n, err := s.messages.MarkRead(ctx, models.ConversationID(userID, otherID), userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to mark messages", err)
	}
	return n, nil
}

func (s *messageService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const op = "MessageService.UnreadCount"

	if userID == "" {
		return 0, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	n, err := s.messages.CountUnread(ctx, userID)
	if err != nil {
		return 0, utils.E(utils.CodeInternal, op, "failed to count messages", err)
	}
	return n, nil
}
