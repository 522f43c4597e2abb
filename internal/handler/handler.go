package handler

import (
	"context"
	"sync"
	"time"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/middleware"
	"vocabtrainer/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	requestTimeout = 10 * time.Second
	testSize       = 10
	reviewBatch    = 20
)

// Services groups the services the bot talks to
type Services struct {
	Auth       *service.AuthService
	Scheduler  *service.SchedulerService
	Quiz       *service.QuizService
	Progress   *service.ProgressService
	Profile    *service.ProfileService
	Vocabulary *service.VocabularyService
}

// Handler manages all bot interactions
type Handler struct {
	bot      *tele.Bot
	services Services
	logger   *zap.Logger
	now      func() time.Time

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-user locks so double-tapped buttons are processed one at a time
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(bot *tele.Bot, services Services, logger *zap.Logger) *Handler {
	return &Handler{
		bot:           bot,
		services:      services,
		logger:        logger,
		now:           time.Now,
		states:        make(map[int64]*domain.StateData),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: /start and the password prompt
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	protected := h.bot.Group()
	protected.Use(middleware.AuthMiddleware(h.services.Auth, h.logger))

	// Commands
	protected.Handle("/study", h.handleStudy)
	protected.Handle("/review", h.handleReview)
	protected.Handle("/test", h.handleTest)
	protected.Handle("/progress", h.handleProgress)
	protected.Handle("/topics", h.handleTopics)
	protected.Handle("/goal", h.handleGoal)
	protected.Handle("/words", h.handleWords)
	protected.Handle("/name", h.handleName)

	// Callback queries (inline buttons)
	protected.Handle(&btnStudy, h.handleStudy)
	protected.Handle(&btnReview, h.handleReview)
	protected.Handle(&btnTest, h.handleTest)
	protected.Handle(&btnProgress, h.handleProgress)
	protected.Handle(&btnTopics, h.handleTopics)
	protected.Handle(&btnWords, h.handleWords)
	protected.Handle(&btnCancel, h.handleCancel)
	protected.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	protected.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// lockUser serializes callback processing for one user. Call the returned
// func to release.
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnStudy = tele.Btn{
		Unique: "study",
		Text:   "📚 Учить новые слова",
	}
	btnReview = tele.Btn{
		Unique: "review",
		Text:   "🔁 Повторение",
	}
	btnTest = tele.Btn{
		Unique: "test",
		Text:   "📝 Тест",
	}
	btnProgress = tele.Btn{
		Unique: "progress",
		Text:   "📊 Прогресс",
	}
	btnTopics = tele.Btn{
		Unique: "topics",
		Text:   "🗂 Темы",
	}
	btnWords = tele.Btn{
		Unique: "words",
		Text:   "📖 Словарь",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Отменить",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Главное меню",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnStudy, btnReview),
		menu.Row(btnTest, btnProgress),
		menu.Row(btnTopics, btnWords),
	)
	return menu
}

func backMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnMainMenu))
	return markup
}
