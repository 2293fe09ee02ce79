package mongo

import (
	"context"
	"time"

	"github.com/yoockh/yoojob/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MessagesCollection = "messages"

type MessageRepository interface {
	Insert(ctx context.Context, m *models.Message) error
	ListThread(ctx context.Context, conversationID string, limit int64) ([]models.Message, error)
	Conversations(ctx context.Context, userID string, limit int64) ([]models.Conversation, error)
	MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

type messageRepo struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepository {
	return &messageRepo{col: db.Collection(MessagesCollection)}
}

func (r *messageRepo) Insert(ctx context.Context, m *models.Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

// ListThread returns the newest messages of a conversation in chronological order.
func (r *messageRepo) ListThread(ctx context.Context, conversationID string, limit int64) ([]models.Message, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{"conversation_id": conversationID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *messageRepo) Conversations(ctx context.Context, userID string, limit int64) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"recipient_id": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$conversation_id",
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$recipient_id", userID}},
					bson.M{"$eq": bson.A{"$read", false}},
				}},
				1, 0,
			}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message.created_at", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, conversationID, recipientID string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"conversation_id": conversationID, "recipient_id": recipientID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *messageRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}
