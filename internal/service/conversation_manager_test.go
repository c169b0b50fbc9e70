package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/constant"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConvRepo is an in-memory ConvRepository.
type fakeConvRepo struct {
	nextId    int
	convs     map[string]*entity.Conversation
	createErr error
	appendErr error
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{convs: make(map[string]*entity.Conversation)}
}

func (f *fakeConvRepo) NewId() string {
	f.nextId++
	return fmt.Sprintf("conv-%d", f.nextId)
}

func (f *fakeConvRepo) Get(ctx context.Context, convId string) (*entity.Conversation, error) {
	return f.convs[convId], nil
}

func (f *fakeConvRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.convs[conv.ConvId] = conv
	return nil
}

func (f *fakeConvRepo) Delete(ctx context.Context, convId string) error {
	delete(f.convs, convId)
	return nil
}

func (f *fakeConvRepo) AppendMessage(ctx context.Context, convId string, msg *entity.Message) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	conv, ok := f.convs[convId]
	if !ok {
		return errcode.ErrConvNotFound
	}
	msg.ConvId = convId
	conv.Messages = append(conv.Messages, msg)
	return nil
}

func (f *fakeConvRepo) SubscribeMessages(ctx context.Context, convId string) (<-chan []*entity.Message, error) {
	out := make(chan []*entity.Message, 1)
	if conv, ok := f.convs[convId]; ok {
		out <- conv.Messages
	}
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

// fakeOverviewRepo is an in-memory OverviewRepository.
type fakeOverviewRepo struct {
	nextId     int
	rows       map[string]*entity.ConversationOverview
	getErr     error
	upsertErrs map[string]error // keyed by owner id
}

func newFakeOverviewRepo() *fakeOverviewRepo {
	return &fakeOverviewRepo{
		rows:       make(map[string]*entity.ConversationOverview),
		upsertErrs: make(map[string]error),
	}
}

func (f *fakeOverviewRepo) NewId() string {
	f.nextId++
	return fmt.Sprintf("ov-%d", f.nextId)
}

func (f *fakeOverviewRepo) GetForUser(ctx context.Context, userId string) ([]*entity.ConversationOverview, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	var result []*entity.ConversationOverview
	for _, row := range f.rows {
		if row.OwnerId == userId {
			copied := *row
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeOverviewRepo) Upsert(ctx context.Context, ov *entity.ConversationOverview) error {
	if err := f.upsertErrs[ov.OwnerId]; err != nil {
		return err
	}
	copied := *ov
	f.rows[ov.OverviewId] = &copied
	return nil
}

func (f *fakeOverviewRepo) DeleteById(ctx context.Context, overviewId string) error {
	delete(f.rows, overviewId)
	return nil
}

func (f *fakeOverviewRepo) SubscribeForUser(ctx context.Context, userId string) (<-chan []*entity.ConversationOverview, error) {
	out := make(chan []*entity.ConversationOverview, 1)
	rows, _ := f.GetForUser(ctx, userId)
	out <- rows
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out, nil
}

func (f *fakeOverviewRepo) forUserAndConv(userId, convId string) *entity.ConversationOverview {
	for _, row := range f.rows {
		if row.OwnerId == userId && row.LinkedConvId == convId {
			return row
		}
	}
	return nil
}

// fakeBookingGuard is a canned BookingGuard.
type fakeBookingGuard struct {
	blocked bool
	err     error
	calls   int
}

func (f *fakeBookingGuard) HasOngoingBookingBetween(ctx context.Context, userA, userB string) (bool, error) {
	f.calls++
	return f.blocked, f.err
}

func newManagerForTest(guard BookingGuard) (*ConversationManager, *fakeConvRepo, *fakeOverviewRepo) {
	convRepo := newFakeConvRepo()
	overviewRepo := newFakeOverviewRepo()
	return NewConversationManager(convRepo, overviewRepo, guard), convRepo, overviewRepo
}

func TestConversationManager_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates conversation and both overview rows", func(t *testing.T) {
		mgr, convRepo, overviewRepo := newManagerForTest(nil)

		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		require.NotEmpty(t, convId)

		conv := convRepo.convs[convId]
		require.NotNil(t, conv)
		assert.Equal(t, "alice", conv.CreatorId)
		assert.Equal(t, "bob", conv.PeerId)
		assert.Equal(t, "Math Help", conv.Name)
		assert.Empty(t, conv.Messages)

		aliceRow := overviewRepo.forUserAndConv("alice", convId)
		require.NotNil(t, aliceRow)
		assert.Equal(t, "bob", aliceRow.PeerId)
		assert.Equal(t, int64(0), aliceRow.UnreadCount)
		assert.Equal(t, entity.Message{}, aliceRow.LastMsg)

		bobRow := overviewRepo.forUserAndConv("bob", convId)
		require.NotNil(t, bobRow)
		assert.Equal(t, "alice", bobRow.PeerId)
		assert.Equal(t, int64(0), bobRow.UnreadCount)
	})

	t.Run("second create between same pair returns existing id", func(t *testing.T) {
		mgr, _, overviewRepo := newManagerForTest(nil)

		first, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)

		second, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help Again")
		require.NoError(t, err)
		assert.Equal(t, first, second)

		// Still exactly two rows, not four
		assert.Len(t, overviewRepo.rows, 2)
	})

	t.Run("create from the other side is also deduplicated", func(t *testing.T) {
		mgr, _, _ := newManagerForTest(nil)

		first, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)

		second, err := mgr.CreateConversation(ctx, "bob", "alice", "Reply")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("pair can start a new conversation after deletion", func(t *testing.T) {
		mgr, _, overviewRepo := newManagerForTest(nil)

		first, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		require.NoError(t, mgr.DeleteConversation(ctx, first, "alice", "bob"))

		// Bob's tombstone row still points at the dead conversation; the
		// duplicate scan over bob's rows must not resurrect it
		require.True(t, overviewRepo.forUserAndConv("bob", first).IsTombstone())

		second, err := mgr.CreateConversation(ctx, "alice", "bob", "Round Two")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)

		require.NoError(t, mgr.SendMessage(ctx, second, &entity.Message{
			MsgId: "m1", SenderId: "alice", ReceiverId: "bob", Content: "back again",
		}))
		bobRow := overviewRepo.forUserAndConv("bob", second)
		require.NotNil(t, bobRow)
		assert.Equal(t, int64(1), bobRow.UnreadCount)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		mgr, convRepo, _ := newManagerForTest(nil)
		convRepo.createErr = errors.New("mongo down")

		_, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.Error(t, err)
		assert.Equal(t, errcode.ErrInternalServer, err)
	})
}

func TestConversationManager_SendMessage(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*ConversationManager, *fakeConvRepo, *fakeOverviewRepo, string) {
		mgr, convRepo, overviewRepo := newManagerForTest(nil)
		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		return mgr, convRepo, overviewRepo, convId
	}

	msg := func(id, sender, receiver, content string) *entity.Message {
		return &entity.Message{
			MsgId:      id,
			SenderId:   sender,
			ReceiverId: receiver,
			Content:    content,
			CreatedAt:  entity.NowUnixMilli(),
		}
	}

	t.Run("appends to log and updates both overviews", func(t *testing.T) {
		mgr, convRepo, overviewRepo, convId := setup(t)

		require.NoError(t, mgr.SendMessage(ctx, convId, msg("m1", "alice", "bob", "hi")))

		require.Len(t, convRepo.convs[convId].Messages, 1)
		assert.Equal(t, "hi", convRepo.convs[convId].Messages[0].Content)

		aliceRow := overviewRepo.forUserAndConv("alice", convId)
		assert.Equal(t, "hi", aliceRow.LastMsg.Content)
		assert.Equal(t, int64(0), aliceRow.UnreadCount)

		bobRow := overviewRepo.forUserAndConv("bob", convId)
		assert.Equal(t, "hi", bobRow.LastMsg.Content)
		assert.Equal(t, int64(1), bobRow.UnreadCount)
	})

	t.Run("receiver unread accumulates per message", func(t *testing.T) {
		mgr, _, overviewRepo, convId := setup(t)

		require.NoError(t, mgr.SendMessage(ctx, convId, msg("m1", "alice", "bob", "hi")))
		require.NoError(t, mgr.SendMessage(ctx, convId, msg("m2", "alice", "bob", "still there?")))

		bobRow := overviewRepo.forUserAndConv("bob", convId)
		assert.Equal(t, int64(2), bobRow.UnreadCount)
		assert.Equal(t, "still there?", bobRow.LastMsg.Content)
	})

	t.Run("reply resets the stale unread count on the sender side", func(t *testing.T) {
		mgr, _, overviewRepo, convId := setup(t)

		require.NoError(t, mgr.SendMessage(ctx, convId, msg("m1", "alice", "bob", "hi")))
		require.NoError(t, mgr.SendMessage(ctx, convId, msg("m2", "bob", "alice", "yes")))

		// Bob had 1 unread from alice, replying forces it to 0
		bobRow := overviewRepo.forUserAndConv("bob", convId)
		assert.Equal(t, int64(0), bobRow.UnreadCount)
		assert.Equal(t, "yes", bobRow.LastMsg.Content)

		aliceRow := overviewRepo.forUserAndConv("alice", convId)
		assert.Equal(t, int64(1), aliceRow.UnreadCount)
	})

	t.Run("self message rejected before any write", func(t *testing.T) {
		mgr, convRepo, _, convId := setup(t)

		err := mgr.SendMessage(ctx, convId, msg("m1", "alice", "alice", "hi me"))
		assert.Equal(t, errcode.ErrSelfMessage, err)
		assert.Empty(t, convRepo.convs[convId].Messages)
	})

	t.Run("unknown conversation is rejected", func(t *testing.T) {
		mgr, _, _, _ := setup(t)

		err := mgr.SendMessage(ctx, "no-such-conv", msg("m1", "alice", "bob", "hi"))
		assert.Equal(t, errcode.ErrConvNotFound, err)
	})

	t.Run("non-participant cannot send into the conversation", func(t *testing.T) {
		mgr, convRepo, overviewRepo, convId := setup(t)

		err := mgr.SendMessage(ctx, convId, msg("m1", "carol", "bob", "psst"))
		assert.Equal(t, errcode.ErrNoPermission, err)

		assert.Empty(t, convRepo.convs[convId].Messages)
		bobRow := overviewRepo.forUserAndConv("bob", convId)
		assert.Equal(t, int64(0), bobRow.UnreadCount)
	})

	t.Run("receiver must be the other participant", func(t *testing.T) {
		mgr, convRepo, _, convId := setup(t)

		err := mgr.SendMessage(ctx, convId, msg("m1", "alice", "carol", "hi"))
		assert.Equal(t, errcode.ErrNoPermission, err)
		assert.Empty(t, convRepo.convs[convId].Messages)
	})

	t.Run("missing overview row is skipped not created", func(t *testing.T) {
		mgr, _, overviewRepo, convId := setup(t)

		bobRow := overviewRepo.forUserAndConv("bob", convId)
		require.NoError(t, overviewRepo.DeleteById(ctx, bobRow.OverviewId))

		require.NoError(t, mgr.SendMessage(ctx, convId, msg("m1", "alice", "bob", "hi")))

		assert.Nil(t, overviewRepo.forUserAndConv("bob", convId))
		aliceRow := overviewRepo.forUserAndConv("alice", convId)
		assert.Equal(t, "hi", aliceRow.LastMsg.Content)
	})
}

func TestConversationManager_Delete(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, guard BookingGuard) (*ConversationManager, *fakeConvRepo, *fakeOverviewRepo, string) {
		mgr, convRepo, overviewRepo := newManagerForTest(guard)
		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{
			MsgId: "m1", SenderId: "alice", ReceiverId: "bob", Content: "hi",
		}))
		return mgr, convRepo, overviewRepo, convId
	}

	t.Run("removes conversation, deleter row and tombstones the peer", func(t *testing.T) {
		mgr, convRepo, overviewRepo, convId := setup(t, nil)

		require.NoError(t, mgr.DeleteConversation(ctx, convId, "alice", "bob"))

		assert.Nil(t, convRepo.convs[convId])
		assert.Nil(t, overviewRepo.forUserAndConv("alice", convId))

		bobRow := overviewRepo.forUserAndConv("bob", convId)
		require.NotNil(t, bobRow)
		assert.True(t, bobRow.IsTombstone())
		assert.Equal(t, constant.SystemUserId, bobRow.LastMsg.SenderId)
		assert.Equal(t, constant.DeletedSystemMsgId, bobRow.LastMsg.MsgId)
		assert.Equal(t, constant.ConversationDeletedText, bobRow.LastMsg.Content)
		assert.Equal(t, int64(0), bobRow.UnreadCount)
	})

	t.Run("ongoing booking blocks deletion", func(t *testing.T) {
		guard := &fakeBookingGuard{blocked: true}
		mgr, convRepo, overviewRepo, convId := setup(t, guard)

		err := mgr.DeleteConversation(ctx, convId, "alice", "bob")
		assert.Equal(t, errcode.ErrDeleteBlocked, err)
		assert.Equal(t, 1, guard.calls)

		// Nothing touched
		assert.NotNil(t, convRepo.convs[convId])
		assert.NotNil(t, overviewRepo.forUserAndConv("alice", convId))
		assert.False(t, overviewRepo.forUserAndConv("bob", convId).IsTombstone())
	})

	t.Run("guard lookup failure blocks deletion", func(t *testing.T) {
		guard := &fakeBookingGuard{err: errors.New("mysql down")}
		mgr, convRepo, _, convId := setup(t, guard)

		err := mgr.DeleteConversation(ctx, convId, "alice", "bob")
		assert.Equal(t, errcode.ErrBookingCheckFailed, err)
		assert.NotNil(t, convRepo.convs[convId])
	})

	t.Run("nil guard never blocks", func(t *testing.T) {
		mgr, convRepo, _, convId := setup(t, nil)
		require.NoError(t, mgr.DeleteConversation(ctx, convId, "alice", "bob"))
		assert.Nil(t, convRepo.convs[convId])
	})

	t.Run("already deleted conversation still cleans up overviews", func(t *testing.T) {
		mgr, convRepo, overviewRepo, convId := setup(t, nil)
		require.NoError(t, convRepo.Delete(ctx, convId))

		require.NoError(t, mgr.DeleteConversation(ctx, convId, "alice", "bob"))
		assert.Nil(t, overviewRepo.forUserAndConv("alice", convId))
		assert.True(t, overviewRepo.forUserAndConv("bob", convId).IsTombstone())
	})

	t.Run("tombstone failure does not fail the deletion", func(t *testing.T) {
		mgr, convRepo, overviewRepo, convId := setup(t, nil)
		overviewRepo.upsertErrs["bob"] = errors.New("write denied")

		require.NoError(t, mgr.DeleteConversation(ctx, convId, "alice", "bob"))
		assert.Nil(t, convRepo.convs[convId])
		assert.Nil(t, overviewRepo.forUserAndConv("alice", convId))
	})
}

func TestConversationManager_ResetUnread(t *testing.T) {
	ctx := context.Background()

	t.Run("zeroes unread and keeps last message", func(t *testing.T) {
		mgr, _, overviewRepo := newManagerForTest(nil)
		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{
			MsgId: "m1", SenderId: "alice", ReceiverId: "bob", Content: "hi",
		}))

		require.NoError(t, mgr.ResetUnread(ctx, convId, "bob"))

		bobRow := overviewRepo.forUserAndConv("bob", convId)
		assert.Equal(t, int64(0), bobRow.UnreadCount)
		assert.Equal(t, "hi", bobRow.LastMsg.Content)
	})

	t.Run("absent row is a no-op", func(t *testing.T) {
		mgr, _, _ := newManagerForTest(nil)
		assert.NoError(t, mgr.ResetUnread(ctx, "no-such-conv", "alice"))
	})
}

func TestConversationManager_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("get conversation returns messages in order", func(t *testing.T) {
		mgr, _, _ := newManagerForTest(nil)
		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{MsgId: "m1", SenderId: "alice", ReceiverId: "bob", Content: "one"}))
		require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{MsgId: "m2", SenderId: "bob", ReceiverId: "alice", Content: "two"}))

		conv, err := mgr.GetConversation(ctx, convId)
		require.NoError(t, err)
		require.Len(t, conv.Messages, 2)
		assert.Equal(t, "one", conv.Messages[0].Content)
		assert.Equal(t, "two", conv.Messages[1].Content)
	})

	t.Run("get missing conversation", func(t *testing.T) {
		mgr, _, _ := newManagerForTest(nil)
		_, err := mgr.GetConversation(ctx, "nope")
		assert.Equal(t, errcode.ErrConvNotFound, err)
	})

	t.Run("participant check", func(t *testing.T) {
		mgr, _, _ := newManagerForTest(nil)
		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)

		assert.NoError(t, mgr.CheckParticipant(ctx, convId, "alice"))
		assert.NoError(t, mgr.CheckParticipant(ctx, convId, "bob"))
		assert.Equal(t, errcode.ErrNoPermission, mgr.CheckParticipant(ctx, convId, "carol"))
		assert.Equal(t, errcode.ErrConvNotFound, mgr.CheckParticipant(ctx, "nope", "alice"))
	})

	t.Run("listen streams start from current state and end on cancel", func(t *testing.T) {
		mgr, _, _ := newManagerForTest(nil)
		convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
		require.NoError(t, err)
		require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{MsgId: "m1", SenderId: "alice", ReceiverId: "bob", Content: "hi"}))

		subCtx, cancel := context.WithCancel(ctx)
		msgs, err := mgr.ListenMessages(subCtx, convId)
		require.NoError(t, err)
		first := <-msgs
		require.Len(t, first, 1)

		overviews, err := mgr.ListenOverviews(subCtx, "bob")
		require.NoError(t, err)
		rows := <-overviews
		require.Len(t, rows, 1)
		assert.Equal(t, int64(1), rows[0].UnreadCount)

		cancel()
		for range msgs {
		}
		for range overviews {
		}
	})
}

// Full lifecycle: create, chat, reset, delete.
func TestConversationManager_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mgr, _, overviewRepo := newManagerForTest(&fakeBookingGuard{})

	convId, err := mgr.CreateConversation(ctx, "alice", "bob", "Math Help")
	require.NoError(t, err)

	require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{MsgId: "m1", SenderId: "alice", ReceiverId: "bob", Content: "hi"}))
	bobRow := overviewRepo.forUserAndConv("bob", convId)
	assert.Equal(t, "hi", bobRow.LastMsg.Content)
	assert.Equal(t, int64(1), bobRow.UnreadCount)

	require.NoError(t, mgr.SendMessage(ctx, convId, &entity.Message{MsgId: "m2", SenderId: "alice", ReceiverId: "bob", Content: "still there?"}))
	assert.Equal(t, int64(2), overviewRepo.forUserAndConv("bob", convId).UnreadCount)

	require.NoError(t, mgr.ResetUnread(ctx, convId, "bob"))
	assert.Equal(t, int64(0), overviewRepo.forUserAndConv("bob", convId).UnreadCount)

	require.NoError(t, mgr.DeleteConversation(ctx, convId, "alice", "bob"))

	aliceRows, err := mgr.GetOverviewsForUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceRows)

	bobRows, err := mgr.GetOverviewsForUser(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobRows, 1)
	assert.True(t, bobRows[0].IsTombstone())
	assert.Equal(t, int64(0), bobRows[0].UnreadCount)
}
