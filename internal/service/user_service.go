package service

import (
	"context"

	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/entity"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/internal/repository"
	"github.com/SkillBridgeee/SkillBridgeee-sub000/pkg/errcode"
	"github.com/mbeoliero/kit/log"
)

// UserService handles user-related business logic
type UserService struct {
	userRepo   *repository.UserRepo
	ratingRepo *repository.RatingRepo
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepo, ratingRepo *repository.RatingRepo) *UserService {
	return &UserService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

// UserProfile is public user info together with the rating summary
type UserProfile struct {
	*entity.UserInfo
	AvgRating   float64 `json:"avg_rating"`
	RatingCount int64   `json:"rating_count"`
}

// GetUserInfo gets user info by Id
func (s *UserService) GetUserInfo(ctx context.Context, userId string) (*entity.UserInfo, error) {
	user, err := s.userRepo.GetById(ctx, userId)
	if err != nil {
		log.CtxDebug(ctx, "get user failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrUserNotFound
	}
	return user.ToUserInfo(), nil
}

// GetUserInfos gets multiple users info by Ids
func (s *UserService) GetUserInfos(ctx context.Context, userIds []string) ([]*entity.UserInfo, error) {
	users, err := s.userRepo.GetByIds(ctx, userIds)
	if err != nil {
		log.CtxError(ctx, "get users failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	infos := make([]*entity.UserInfo, 0, len(users))
	for _, user := range users {
		infos = append(infos, user.ToUserInfo())
	}
	return infos, nil
}

// GetUserProfile gets public user info with the aggregated rating
func (s *UserService) GetUserProfile(ctx context.Context, userId string) (*UserProfile, error) {
	info, err := s.GetUserInfo(ctx, userId)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.ratingRepo.AverageForUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "get rating summary failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	return &UserProfile{
		UserInfo:    info,
		AvgRating:   avg,
		RatingCount: count,
	}, nil
}

// UpdateUserRequest represents user update request
type UpdateUserRequest struct {
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Extra    string `json:"extra,omitempty"`
}

// UpdateUserInfo updates user info
func (s *UserService) UpdateUserInfo(ctx context.Context, userId string, req *UpdateUserRequest) (*entity.UserInfo, error) {
	exists, err := s.userRepo.Exists(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "check user exists failed: %v", err)
		return nil, errcode.ErrInternalServer
	}
	if !exists {
		return nil, errcode.ErrUserNotFound
	}

	updates := make(map[string]interface{})
	if req.Nickname != "" {
		updates["nickname"] = req.Nickname
	}
	if req.Avatar != "" {
		updates["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		updates["bio"] = req.Bio
	}
	if req.Extra != "" {
		updates["extra"] = req.Extra
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, userId, updates); err != nil {
			log.CtxError(ctx, "update user failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
	}

	return s.GetUserInfo(ctx, userId)
}
