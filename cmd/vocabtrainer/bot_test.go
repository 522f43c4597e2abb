package main

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/config"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/metrics"
	"vocabtrainer/internal/service"
	"vocabtrainer/internal/testutil"
)

func TestReminderText(t *testing.T) {
	assert.Equal(t,
		"⏰ Пора повторить слова: 3 ждут тебя. Нажми /review\n\nА для новых слов (цель: 10 в день) есть /study",
		reminderText(domain.Reminder{UserID: 1, Due: 3, DailyGoal: 10}),
	)
	assert.Equal(t,
		"⏰ Пора повторить слова: 1 ждут тебя. Нажми /review",
		reminderText(domain.Reminder{UserID: 1, Due: 1}),
	)
}

func TestStartReminderJob(t *testing.T) {
	users := new(testutil.MockUserRepository)
	users.On("ListAuthorized", mock.Anything).Return([]domain.User{{UserID: 5, DailyGoal: 10, Authorized: true}}, nil)
	store := testutil.NewMemoryStore(testutil.NewTestVocabulary(2), nil)
	store.PutRecord(testutil.NewTestRecord(5, 1, domain.StatusLearning, time.Now().AddDate(0, 0, -3)))
	reminders := service.NewReminderService(users, store, metrics.NewNoop(), testutil.NewTestLogger())

	var mu sync.Mutex
	var delivered []domain.Reminder
	notify := func(_ context.Context, r domain.Reminder) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, r)
		return nil
	}

	jobs, err := startReminderJob(context.Background(), time.Hour, reminders, notify, testutil.NewTestLogger())
	require.NoError(t, err)
	defer jobs.Stop()

	// The first run starts immediately
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(delivered) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, domain.Reminder{UserID: 5, Due: 1, DailyGoal: 10}, delivered[0])
}

func TestOpenCache_Disabled(t *testing.T) {
	store, err := openCache(&config.Config{}, testutil.NewTestLogger())

	require.NoError(t, err)
	_, err = store.Get(context.Background(), "any")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestOpenCache_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{Redis: config.RedisConfig{Addr: mr.Addr(), KeyPrefix: "test:"}}

	store, err := openCache(cfg, testutil.NewTestLogger())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), "k", "v", time.Minute))
	assert.True(t, mr.Exists("k"))
}
