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

// OverviewRepo persists the per-viewer conversation overview rows.
// Updates are whole-document replaces keyed by overview_id.
type OverviewRepo struct {
	coll *mongo.Collection
	rdb  *redis.Client
}

// NewOverviewRepo creates a new OverviewRepo
func NewOverviewRepo(db *mongo.Database, rdb *redis.Client) *OverviewRepo {
	return &OverviewRepo{
		coll: db.Collection(constant.CollOverviews),
		rdb:  rdb,
	}
}

// NewId allocates a new overview row id
func (r *OverviewRepo) NewId() string {
	return idgen.MustNextID()
}

// GetForUser returns every overview row owned by the user
func (r *OverviewRepo) GetForUser(ctx context.Context, userId string) ([]*entity.ConversationOverview, error) {
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": userId})
	if err != nil {
		return nil, err
	}

	rows := make([]*entity.ConversationOverview, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert replaces the full overview row keyed by its id, inserting it
// when absent
func (r *OverviewRepo) Upsert(ctx context.Context, ov *entity.ConversationOverview) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"overview_id": ov.OverviewId},
		ov,
		options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	r.notifyOwner(ctx, ov.OwnerId)
	return nil
}

// DeleteById removes one overview row
func (r *OverviewRepo) DeleteById(ctx context.Context, overviewId string) error {
	var row entity.ConversationOverview
	err := r.coll.FindOneAndDelete(ctx, bson.M{"overview_id": overviewId}).Decode(&row)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	}
	r.notifyOwner(ctx, row.OwnerId)
	return nil
}

// SubscribeForUser returns a live stream of the user's overview list.
// Same contract as ConversationRepo.SubscribeMessages: current state
// first, a fresh list on every change, closed on ctx cancellation.
func (r *OverviewRepo) SubscribeForUser(ctx context.Context, userId string) (<-chan []*entity.ConversationOverview, error) {
	sub := r.rdb.Subscribe(ctx, overviewChannel(userId))
	if _, err := sub.Receive(ctx); err != nil {
		return nil, errcode.ErrSubscribeFailed.Wrap(err)
	}

	out := make(chan []*entity.ConversationOverview, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		emit := func() {
			rows, err := r.GetForUser(ctx, userId)
			if err != nil {
				log.CtxWarn(ctx, "subscribe overviews refetch failed: user_id=%s, error=%v", userId, err)
				return
			}
			select {
			case out <- rows:
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

// notifyOwner wakes up overview subscribers of a user
func (r *OverviewRepo) notifyOwner(ctx context.Context, ownerId string) {
	if err := r.rdb.Publish(ctx, overviewChannel(ownerId), ownerId).Err(); err != nil {
		log.CtxWarn(ctx, "publish overview notification failed: owner_id=%s, error=%v", ownerId, err)
	}
}

func overviewChannel(userId string) string {
	return fmt.Sprintf(constant.RedisChanUserOverviews(), userId)
}
