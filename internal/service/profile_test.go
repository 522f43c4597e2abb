package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProfileService_Profile(t *testing.T) {
	users := new(testutil.MockUserRepository)
	user := testutil.NewTestUser(1, true)
	users.On("GetProfile", mock.Anything, int64(1)).Return(user, nil)
	users.On("GetProfile", mock.Anything, int64(2)).Return(nil, nil)
	users.On("GetProfile", mock.Anything, int64(3)).Return(nil, errors.New("db down"))
	s := NewProfileService(users, testutil.NewNilGateway(), testutil.NewTestLogger())
	ctx := context.Background()

	got, err := s.Profile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, user, got)

	_, err = s.Profile(ctx, 2)
	assert.True(t, domain.IsInvalidArgument(err))

	_, err = s.Profile(ctx, 3)
	assert.True(t, domain.IsStorage(err))
}

func TestProfileService_SelectedTopics_Cached(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("SelectedTopics", mock.Anything, int64(1)).Return([]int64{3, 1, 2}, nil).Once()
	gateway, mr := testutil.NewTestGateway(t)
	s := NewProfileService(users, gateway, testutil.NewTestLogger())
	ctx := context.Background()

	first, err := s.SelectedTopics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, first)
	assert.True(t, mr.Exists(gateway.Keys().SelectedTopics(1)))

	second, err := s.SelectedTopics(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, second)

	users.AssertExpectations(t)
}

func TestProfileService_SelectedTopics_EmptyNotCached(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("SelectedTopics", mock.Anything, int64(1)).Return(nil, nil).Twice()
	gateway, mr := testutil.NewTestGateway(t)
	s := NewProfileService(users, gateway, testutil.NewTestLogger())

	for i := 0; i < 2; i++ {
		ids, err := s.SelectedTopics(context.Background(), 1)
		require.NoError(t, err)
		assert.Empty(t, ids)
	}
	assert.Empty(t, mr.Keys())
	users.AssertExpectations(t)
}

func TestProfileService_SelectedTopics_MalformedCache(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("SelectedTopics", mock.Anything, int64(1)).Return([]int64{5}, nil).Once()
	gateway, mr := testutil.NewTestGateway(t)
	_, err := mr.SAdd(gateway.Keys().SelectedTopics(1), "not-a-number")
	require.NoError(t, err)
	s := NewProfileService(users, gateway, testutil.NewTestLogger())

	ids, err := s.SelectedTopics(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{5}, ids)
	users.AssertExpectations(t)
}

func TestProfileService_SelectTopics(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("ReplaceSelectedTopics", mock.Anything, int64(1), []int64{2, 4, 9}).Return(nil).Once()
	gateway, mr := testutil.NewTestGateway(t)
	keys := gateway.Keys()
	require.NoError(t, mr.Set(keys.SelectedTopics(1), "stale"))
	require.NoError(t, mr.Set(keys.UserProgress(1, nil), "stale"))
	require.NoError(t, mr.Set(keys.TopicList(), "shared"))
	s := NewProfileService(users, gateway, testutil.NewTestLogger())

	err := s.SelectTopics(context.Background(), 1, []int64{9, 2, 4, 2})

	require.NoError(t, err)
	assert.False(t, mr.Exists(keys.SelectedTopics(1)))
	assert.False(t, mr.Exists(keys.UserProgress(1, nil)))
	assert.True(t, mr.Exists(keys.TopicList()))
	users.AssertExpectations(t)
}

func TestProfileService_SelectTopics_Invalid(t *testing.T) {
	users := new(testutil.MockUserRepository)
	s := NewProfileService(users, testutil.NewNilGateway(), testutil.NewTestLogger())

	err := s.SelectTopics(context.Background(), 1, []int64{1, 0})

	assert.True(t, domain.IsInvalidArgument(err))
	users.AssertNotCalled(t, "ReplaceSelectedTopics", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileService_SelectTopics_Clear(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("ReplaceSelectedTopics", mock.Anything, int64(1), []int64{}).Return(nil).Once()
	s := NewProfileService(users, testutil.NewNilGateway(), testutil.NewTestLogger())

	require.NoError(t, s.SelectTopics(context.Background(), 1, []int64{}))
	users.AssertExpectations(t)
}

func TestProfileService_UpdateDailyGoal(t *testing.T) {
	tests := []struct {
		name    string
		goal    int
		wantErr bool
	}{
		{"minimum", 1, false},
		{"default", domain.DefaultDailyGoal, false},
		{"maximum", domain.MaxDailyGoal, false},
		{"zero", 0, true},
		{"negative", -5, true},
		{"too large", domain.MaxDailyGoal + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(testutil.MockUserRepository)
			users.On("UpdateDailyGoal", mock.Anything, int64(1), tt.goal).Return(nil).Maybe()
			s := NewProfileService(users, testutil.NewNilGateway(), testutil.NewTestLogger())

			err := s.UpdateDailyGoal(context.Background(), 1, tt.goal)

			if tt.wantErr {
				assert.True(t, domain.IsInvalidArgument(err))
				users.AssertNotCalled(t, "UpdateDailyGoal", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				users.AssertCalled(t, "UpdateDailyGoal", mock.Anything, int64(1), tt.goal)
			}
		})
	}
}

func TestProfileService_UpdateDailyGoal_InvalidatesCache(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("UpdateDailyGoal", mock.Anything, int64(7), 20).Return(nil)
	gateway, mr := testutil.NewTestGateway(t)
	key := gateway.Keys().UserProgress(7, nil)
	require.NoError(t, mr.Set(key, "stale"))
	s := NewProfileService(users, gateway, testutil.NewTestLogger())

	require.NoError(t, s.UpdateDailyGoal(context.Background(), 7, 20))
	assert.False(t, mr.Exists(key))
}

func TestProfileService_UpdateDailyGoal_StorageError(t *testing.T) {
	users := new(testutil.MockUserRepository)
	dbErr := errors.New("db down")
	users.On("UpdateDailyGoal", mock.Anything, int64(1), 15).Return(dbErr)
	s := NewProfileService(users, testutil.NewNilGateway(), testutil.NewTestLogger())

	err := s.UpdateDailyGoal(context.Background(), 1, 15)

	assert.True(t, domain.IsStorage(err))
	assert.ErrorIs(t, err, dbErr)
}

func TestProfileService_UpdateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		stored  string
		wantErr bool
	}{
		{"plain", "Anna", "Anna", false},
		{"trimmed", "  Иван  ", "Иван", false},
		{"max runes", strings.Repeat("я", 64), strings.Repeat("я", 64), false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"too long", strings.Repeat("я", 65), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(testutil.MockUserRepository)
			users.On("UpdateName", mock.Anything, int64(1), tt.stored).Return(nil).Maybe()
			s := NewProfileService(users, testutil.NewNilGateway(), testutil.NewTestLogger())

			err := s.UpdateName(context.Background(), 1, tt.input)

			if tt.wantErr {
				assert.True(t, domain.IsInvalidArgument(err))
				users.AssertNotCalled(t, "UpdateName", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				users.AssertCalled(t, "UpdateName", mock.Anything, int64(1), tt.stored)
			}
		})
	}
}
