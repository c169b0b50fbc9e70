package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/idgen"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepo persists conversations and their message logs in the
// document store. The log is a separate collection keyed by conv_id so a
// conversation document stays small no matter how long the chat runs.
type ConversationRepo struct {
	convs *mongo.Collection
	msgs  *mongo.Collection
	rdb   *redis.Client
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *mongo.Database, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{
		convs: db.Collection(constant.CollConversations),
		msgs:  db.Collection(constant.CollMessages),
		rdb:   rdb,
	}
}

// NewId allocates a new conversation or message id
func (r *ConversationRepo) NewId() string {
	return idgen.MustNextID()
}

// Get fetches a conversation with its full ordered message log.
// Returns (nil, nil) when the conversation does not exist.
func (r *ConversationRepo) Get(ctx context.Context, convId string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.convs.FindOne(ctx, bson.M{"conv_id": convId}).Decode(&conv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	msgs, err := r.GetMessages(ctx, convId)
	if err != nil {
		return nil, err
	}
	conv.Messages = msgs

	return &conv, nil
}

// Create persists a new conversation document (without messages)
func (r *ConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	if conv.CreatedAt == 0 {
		conv.CreatedAt = entity.NowUnixMilli()
	}
	_, err := r.convs.InsertOne(ctx, conv)
	return err
}

// Delete removes the conversation document and its whole message log
func (r *ConversationRepo) Delete(ctx context.Context, convId string) error {
	if _, err := r.convs.DeleteOne(ctx, bson.M{"conv_id": convId}); err != nil {
		return err
	}
	if _, err := r.msgs.DeleteMany(ctx, bson.M{"conv_id": convId}); err != nil {
		return err
	}
	r.notifyMessages(ctx, convId)
	return nil
}

// AppendMessage appends a message to the conversation's log. The write
// fails with ErrConvNotFound when the conversation does not exist.
func (r *ConversationRepo) AppendMessage(ctx context.Context, convId string, msg *entity.Message) error {
	count, err := r.convs.CountDocuments(ctx, bson.M{"conv_id": convId}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if count == 0 {
		return errcode.ErrConvNotFound
	}

	msg.ConvId = convId
	if msg.CreatedAt == 0 {
		msg.CreatedAt = entity.NowUnixMilli()
	}

	if _, err := r.msgs.InsertOne(ctx, msg); err != nil {
		return err
	}

	r.notifyMessages(ctx, convId)
	return nil
}

// GetMessages returns the ordered message log of a conversation
func (r *ConversationRepo) GetMessages(ctx context.Context, convId string) ([]*entity.Message, error) {
	cur, err := r.msgs.Find(ctx, bson.M{"conv_id": convId},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}

	msgs := make([]*entity.Message, 0)
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SubscribeMessages returns a live stream of the conversation's message
// list. The current list is emitted first, then the list is re-emitted on
// every change. The channel closes when ctx is cancelled; there is no
// reconnect, a fresh subscription starts from current state.
func (r *ConversationRepo) SubscribeMessages(ctx context.Context, convId string) (<-chan []*entity.Message, error) {
	sub := r.rdb.Subscribe(ctx, msgChannel(convId))
	if _, err := sub.Receive(ctx); err != nil {
		return nil, errcode.ErrSubscribeFailed.Wrap(err)
	}

	out := make(chan []*entity.Message, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() {
			msgs, err := r.GetMessages(ctx, convId)
			if err != nil {
				log.CtxWarn(ctx, "subscribe messages refetch failed: conv_id=%s, error=%v", convId, err)
				return
			}
			select {
			case out <- msgs:
			case <-ctx.Done():
			}
		}

		emit()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return out, nil
}

// notifyMessages wakes up message subscribers of a conversation.
// Best effort: a missed notification only delays the next refresh.
func (r *ConversationRepo) notifyMessages(ctx context.Context, convId string) {
	if err := r.rdb.Publish(ctx, msgChannel(convId), convId).Err(); err != nil {
		log.CtxWarn(ctx, "publish message notification failed: conv_id=%s, error=%v", convId, err)
	}
}

func msgChannel(convId string) string {
	return fmt.Sprintf(constant.RedisChanConvMessages(), convId)
}
