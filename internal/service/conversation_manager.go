package service

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// ConvRepository is the canonical store for conversations and their
// message logs.
type ConvRepository interface {
	NewId() string
	Get(ctx context.Context, convId string) (*entity.Conversation, error)
	Create(ctx context.Context, conv *entity.Conversation) error
	Delete(ctx context.Context, convId string) error
	AppendMessage(ctx context.Context, convId string, msg *entity.Message) error
	SubscribeMessages(ctx context.Context, convId string) (<-chan []*entity.Message, error)
}

// OverviewRepository stores the per-user overview projections. Upsert is
// a full-row replace keyed by overview id.
type OverviewRepository interface {
	NewId() string
	GetForUser(ctx context.Context, userId string) ([]*entity.ConversationOverview, error)
	Upsert(ctx context.Context, ov *entity.ConversationOverview) error
	DeleteById(ctx context.Context, overviewId string) error
	SubscribeForUser(ctx context.Context, userId string) (<-chan []*entity.ConversationOverview, error)
}

// BookingGuard answers whether two users currently have an ongoing
// booking, which blocks conversation deletion between them.
type BookingGuard interface {
	HasOngoingBookingBetween(ctx context.Context, userA, userB string) (bool, error)
}

// ConversationManager keeps a conversation's canonical message log
// consistent with the two per-participant overview projections. Every
// multi-step operation runs as independent repository calls, not a
// transaction; overview updates are read-then-replace with no locking,
// so concurrent sends on one conversation may lose an unread increment.
type ConversationManager struct {
	convRepo     ConvRepository
	overviewRepo OverviewRepository
	bookingGuard BookingGuard // optional, nil means deletion is never blocked
}

// NewConversationManager creates a new ConversationManager. bookingGuard
// may be nil.
func NewConversationManager(convRepo ConvRepository, overviewRepo OverviewRepository, bookingGuard BookingGuard) *ConversationManager {
	return &ConversationManager{
		convRepo:     convRepo,
		overviewRepo: overviewRepo,
		bookingGuard: bookingGuard,
	}
}

// CreateConversation creates a conversation between creatorId and
// otherUserId together with both overview rows, or returns the id of the
// existing conversation between the pair. The duplicate check reads only
// the other user's rows, so the creator's own projection is never read
// from this path.
func (m *ConversationManager) CreateConversation(ctx context.Context, creatorId, otherUserId, convName string) (string, error) {
	otherOverviews, err := m.overviewRepo.GetForUser(ctx, otherUserId)
	if err != nil {
		log.CtxError(ctx, "get overviews failed: user_id=%s, error=%v", otherUserId, err)
		return "", asErrcode(err)
	}
	for _, ov := range otherOverviews {
		// A tombstone points at a deleted conversation and must not
		// satisfy the duplicate check, or the pair could never start over.
		if ov.PeerId == creatorId && !ov.IsTombstone() {
			return ov.LinkedConvId, nil
		}
	}

	convId := m.convRepo.NewId()
	conv := &entity.Conversation{
		ConvId:    convId,
		CreatorId: creatorId,
		PeerId:    otherUserId,
		Name:      convName,
		CreatedAt: entity.NowUnixMilli(),
		Messages:  []*entity.Message{},
	}
	if err := m.convRepo.Create(ctx, conv); err != nil {
		log.CtxError(ctx, "create conversation failed: conv_id=%s, error=%v", convId, err)
		return "", asErrcode(err)
	}

	pairs := [][2]string{{creatorId, otherUserId}, {otherUserId, creatorId}}
	for _, pair := range pairs {
		ov := &entity.ConversationOverview{
			OverviewId:   m.overviewRepo.NewId(),
			LinkedConvId: convId,
			Name:         convName,
			LastMsg:      entity.Message{},
			UnreadCount:  0,
			OwnerId:      pair[0],
			PeerId:       pair[1],
		}
		if err := m.overviewRepo.Upsert(ctx, ov); err != nil {
			log.CtxError(ctx, "create overview failed: conv_id=%s, owner_id=%s, error=%v", convId, pair[0], err)
			return "", asErrcode(err)
		}
	}

	return convId, nil
}

// SendMessage appends msg to the conversation's log and refreshes both
// overview rows: the sender's unread count is forced to zero and the
// receiver's is incremented. A missing overview row on either side is
// skipped, not created. The sender must be a participant of the
// conversation and the receiver must be the other participant.
func (m *ConversationManager) SendMessage(ctx context.Context, convId string, msg *entity.Message) error {
	if err := msg.Validate(); err != nil {
		return asErrcode(err)
	}

	conv, err := m.convRepo.Get(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conv_id=%s, error=%v", convId, err)
		return asErrcode(err)
	}
	if conv == nil {
		return errcode.ErrConvNotFound
	}
	if !conv.HasParticipant(msg.SenderId) || msg.ReceiverId != conv.OtherParticipant(msg.SenderId) {
		log.CtxWarn(ctx, "send rejected, sender not a participant: conv_id=%s, sender_id=%s, receiver_id=%s",
			convId, msg.SenderId, msg.ReceiverId)
		return errcode.ErrNoPermission
	}

	if err := m.convRepo.AppendMessage(ctx, convId, msg); err != nil {
		log.CtxError(ctx, "append message failed: conv_id=%s, msg_id=%s, error=%v", convId, msg.MsgId, err)
		return asErrcode(err)
	}

	if err := m.refreshOverview(ctx, convId, msg.SenderId, *msg, func(int64) int64 { return 0 }); err != nil {
		return err
	}
	return m.refreshOverview(ctx, convId, msg.ReceiverId, *msg, func(prev int64) int64 { return prev + 1 })
}

// refreshOverview replaces the given user's overview row for convId with
// a copy carrying the new last message and recomputed unread count. An
// absent row is skipped with a warning.
func (m *ConversationManager) refreshOverview(ctx context.Context, convId, userId string, msg entity.Message, unread func(prev int64) int64) error {
	ov, err := m.findOverview(ctx, userId, convId)
	if err != nil {
		log.CtxError(ctx, "get overview failed: conv_id=%s, user_id=%s, error=%v", convId, userId, err)
		return asErrcode(err)
	}
	if ov == nil {
		log.CtxWarn(ctx, "overview row missing, skipping update: conv_id=%s, user_id=%s", convId, userId)
		return nil
	}

	updated := ov.WithLastMsg(msg, unread(ov.UnreadCount))
	if err := m.overviewRepo.Upsert(ctx, &updated); err != nil {
		log.CtxError(ctx, "update overview failed: overview_id=%s, error=%v", ov.OverviewId, err)
		return asErrcode(err)
	}
	return nil
}

// DeleteConversation removes the conversation and the deleter's overview
// rows, and downgrades the other participant's row to a tombstone so
// their conversation list shows a terminal notice instead of losing the
// entry. An ongoing booking between the two users blocks deletion. A
// failing guard lookup also blocks, rather than letting the deletion
// slip through.
func (m *ConversationManager) DeleteConversation(ctx context.Context, convId, deleterId, otherId string) error {
	if m.bookingGuard != nil {
		blocked, err := m.bookingGuard.HasOngoingBookingBetween(ctx, deleterId, otherId)
		if err != nil {
			log.CtxError(ctx, "booking guard lookup failed: deleter_id=%s, other_id=%s, error=%v", deleterId, otherId, err)
			return errcode.ErrBookingCheckFailed
		}
		if blocked {
			return errcode.ErrDeleteBlocked
		}
	}

	conv, err := m.convRepo.Get(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conv_id=%s, error=%v", convId, err)
		return asErrcode(err)
	}
	if conv != nil {
		if err := m.convRepo.Delete(ctx, convId); err != nil {
			log.CtxError(ctx, "delete conversation failed: conv_id=%s, error=%v", convId, err)
			return asErrcode(err)
		}
	}

	deleterOverviews, err := m.overviewRepo.GetForUser(ctx, deleterId)
	if err != nil {
		log.CtxError(ctx, "get overviews failed: user_id=%s, error=%v", deleterId, err)
		return asErrcode(err)
	}
	for _, ov := range deleterOverviews {
		if ov.LinkedConvId != convId {
			continue
		}
		if err := m.overviewRepo.DeleteById(ctx, ov.OverviewId); err != nil {
			log.CtxError(ctx, "delete overview failed: overview_id=%s, error=%v", ov.OverviewId, err)
			return asErrcode(err)
		}
	}

	// Best effort: the canonical deletion already succeeded, the other
	// side just loses the terminal notice if this fails.
	if err := m.tombstoneOverview(ctx, convId, otherId); err != nil {
		log.CtxWarn(ctx, "tombstone overview failed: conv_id=%s, user_id=%s, error=%v", convId, otherId, err)
	}
	return nil
}

func (m *ConversationManager) tombstoneOverview(ctx context.Context, convId, userId string) error {
	ov, err := m.findOverview(ctx, userId, convId)
	if err != nil {
		return err
	}
	if ov == nil {
		return nil
	}
	updated := ov.WithLastMsg(entity.NewDeletedTombstone(userId), 0)
	return m.overviewRepo.Upsert(ctx, &updated)
}

// ResetUnread zeroes the user's unread count for the conversation. An
// absent row is a no-op.
func (m *ConversationManager) ResetUnread(ctx context.Context, convId, userId string) error {
	ov, err := m.findOverview(ctx, userId, convId)
	if err != nil {
		log.CtxError(ctx, "get overview failed: conv_id=%s, user_id=%s, error=%v", convId, userId, err)
		return asErrcode(err)
	}
	if ov == nil {
		return nil
	}

	updated := ov.WithLastMsg(ov.LastMsg, 0)
	if err := m.overviewRepo.Upsert(ctx, &updated); err != nil {
		log.CtxError(ctx, "reset unread failed: overview_id=%s, error=%v", ov.OverviewId, err)
		return asErrcode(err)
	}
	return nil
}

// GetConversation returns the conversation with its message log, or
// ErrConvNotFound.
func (m *ConversationManager) GetConversation(ctx context.Context, convId string) (*entity.Conversation, error) {
	conv, err := m.convRepo.Get(ctx, convId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conv_id=%s, error=%v", convId, err)
		return nil, asErrcode(err)
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	return conv, nil
}

// CheckParticipant verifies that userId takes part in the conversation.
// Returns ErrConvNotFound for an unknown conversation and ErrNoPermission
// for a non-participant.
func (m *ConversationManager) CheckParticipant(ctx context.Context, convId, userId string) error {
	conv, err := m.GetConversation(ctx, convId)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(userId) {
		return errcode.ErrNoPermission
	}
	return nil
}

// GetOverviewsForUser returns all overview rows owned by the user.
func (m *ConversationManager) GetOverviewsForUser(ctx context.Context, userId string) ([]*entity.ConversationOverview, error) {
	overviews, err := m.overviewRepo.GetForUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get overviews failed: user_id=%s, error=%v", userId, err)
		return nil, asErrcode(err)
	}
	return overviews, nil
}

// ListenMessages streams the conversation's current message list and
// every subsequent version until ctx is cancelled.
func (m *ConversationManager) ListenMessages(ctx context.Context, convId string) (<-chan []*entity.Message, error) {
	return m.convRepo.SubscribeMessages(ctx, convId)
}

// ListenOverviews streams the user's current overview list and every
// subsequent version until ctx is cancelled.
func (m *ConversationManager) ListenOverviews(ctx context.Context, userId string) (<-chan []*entity.ConversationOverview, error) {
	return m.overviewRepo.SubscribeForUser(ctx, userId)
}

// NewMessageId allocates an id for a message about to be sent.
func (m *ConversationManager) NewMessageId() string {
	return m.convRepo.NewId()
}

func (m *ConversationManager) findOverview(ctx context.Context, userId, convId string) (*entity.ConversationOverview, error) {
	overviews, err := m.overviewRepo.GetForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	for _, ov := range overviews {
		if ov.LinkedConvId == convId {
			return ov, nil
		}
	}
	return nil, nil
}

// asErrcode keeps business errors intact and hides everything else
// behind ErrInternalServer.
func asErrcode(err error) error {
	if e, ok := err.(*errcode.Error); ok {
		return e
	}
	return errcode.ErrInternalServer
}
