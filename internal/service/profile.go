package service

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/repository"

	"go.uber.org/zap"
)

const maxNameLength = 64

// ProfileService manages per-user settings: name, daily goal and followed topics
type ProfileService struct {
	users  repository.UserRepository
	cache  *cache.Gateway
	logger *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(users repository.UserRepository, gateway *cache.Gateway, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		cache:  gateway,
		logger: logger,
	}
}

// Profile returns the user's profile
func (s *ProfileService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, domain.Storage("load profile", err)
	}
	if user == nil {
		return nil, domain.InvalidArgumentf("user %d not found", userID)
	}
	return user, nil
}

// SelectedTopics returns the ids of the topics the user follows, ascending
func (s *ProfileService) SelectedTopics(ctx context.Context, userID int64) ([]int64, error) {
	key := s.cache.Keys().SelectedTopics(userID)
	if members, ok := s.cache.ReadMembers(ctx, key); ok {
		ids, err := parseIDs(members)
		if err == nil {
			return ids, nil
		}
		s.logger.Debug("Ignoring malformed cached topic selection", zap.String("key", key), zap.Error(err))
	}

	ids, err := s.users.SelectedTopics(ctx, userID)
	if err != nil {
		return nil, domain.Storage("load selected topics", err)
	}
	ids = slices.Clone(ids)
	slices.Sort(ids)

	members := make([]string, len(ids))
	for i, id := range ids {
		members[i] = strconv.FormatInt(id, 10)
	}
	s.cache.WriteMembers(ctx, key, members, s.cache.TTL().SelectedTopics)

	return ids, nil
}

// SelectTopics replaces the user's followed topics
func (s *ProfileService) SelectTopics(ctx context.Context, userID int64, topicIDs []int64) error {
	ids := slices.Clone(topicIDs)
	for _, id := range ids {
		if id <= 0 {
			return domain.InvalidArgumentf("invalid topic id %d", id)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	if err := s.users.ReplaceSelectedTopics(ctx, userID, ids); err != nil {
		return domain.Storage("save selected topics", err)
	}
	s.cache.InvalidateUser(ctx, userID)

	s.logger.Info("Topics selected", zap.Int64("user_id", userID), zap.Int64s("topic_ids", ids))
	return nil
}

// UpdateDailyGoal sets how many new words the user wants per day
func (s *ProfileService) UpdateDailyGoal(ctx context.Context, userID int64, goal int) error {
	if goal < 1 || goal > domain.MaxDailyGoal {
		return domain.InvalidArgumentf("daily goal must be between 1 and %d", domain.MaxDailyGoal)
	}
	if err := s.users.UpdateDailyGoal(ctx, userID, goal); err != nil {
		return domain.Storage("save daily goal", err)
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// UpdateName sets the user's display name
func (s *ProfileService) UpdateName(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return domain.InvalidArgumentf("name must be 1 to %d characters", maxNameLength)
	}
	if err := s.users.UpdateName(ctx, userID, name); err != nil {
		return domain.Storage("save name", err)
	}
	s.cache.InvalidateUser(ctx, userID)
	return nil
}

func parseIDs(members []string) ([]int64, error) {
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
