package handler

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"vocabtrainer/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	topicPrefix = "topic_"
	pagePrefix  = "page_"
)

// handleProgress shows the user's overall statistics
func (h *Handler) handleProgress(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	progress, err := h.services.Progress.UserProgress(ctx, userID, nil)
	if err != nil {
		return h.fail(c, "load progress", userID, err)
	}
	return h.show(c, renderProgress(progress), backMarkup())
}

// handleTopics lists topics with progress and selection toggles
func (h *Handler) handleTopics(c tele.Context) error {
	return h.showTopics(c, c.Sender().ID, nil)
}

func (h *Handler) showTopics(c tele.Context, userID int64, selected []int64) error {
	ctx, cancel := requestContext()
	defer cancel()

	views, err := h.services.Progress.TopicsWithProgress(ctx, userID, selected, "")
	if err != nil {
		return h.fail(c, "load topics", userID, err)
	}
	if len(views) == 0 {
		return notice(c, "Тем пока нет")
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(views)+1)
	for _, v := range views {
		mark := "▫️"
		if v.Selected {
			mark = "✅"
		}
		btn := markup.Data(mark+" "+v.Topic.Name, fmt.Sprintf("%s%d", topicPrefix, v.Topic.ID))
		rows = append(rows, markup.Row(btn))
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	return h.show(c, renderTopics(views), markup)
}

// handleTopicToggle adds or removes one topic from the user's selection
func (h *Handler) handleTopicToggle(c tele.Context, data string) error {
	userID := c.Sender().ID

	unlock := h.lockUser(userID)
	defer unlock()

	args, err := callbackArgs(data, topicPrefix, 1)
	if err != nil {
		h.logger.Warn("Malformed topic callback", zap.Error(err))
		return c.Respond()
	}

	ctx, cancel := requestContext()
	defer cancel()

	selected, err := h.services.Profile.SelectedTopics(ctx, userID)
	if err != nil {
		return h.fail(c, "load selected topics", userID, err)
	}
	selected = toggle(selected, args[0])

	if err := h.services.Profile.SelectTopics(ctx, userID, selected); err != nil {
		return h.fail(c, "select topics", userID, err)
	}
	return h.showTopics(c, userID, selected)
}

// toggle returns ids with id added or removed
func toggle(ids []int64, id int64) []int64 {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(slices.Clone(ids), i, i+1)
	}
	return append(slices.Clone(ids), id)
}

// handleGoal shows or sets the daily goal: /goal 15
func (h *Handler) handleGoal(c tele.Context) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	args := c.Args()
	if len(args) == 0 {
		profile, err := h.services.Profile.Profile(ctx, userID)
		if err != nil {
			return h.fail(c, "load profile", userID, err)
		}
		return c.Send(fmt.Sprintf("🎯 Цель: %d слов в день\n\nИзменить: /goal <число>", profile.DailyGoal))
	}

	goal, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return c.Send("Укажи число, например: /goal 15")
	}
	if err := h.services.Profile.UpdateDailyGoal(ctx, userID, goal); err != nil {
		return h.fail(c, "update daily goal", userID, err)
	}
	return c.Send(fmt.Sprintf("✅ Новая цель: %d слов в день", goal))
}

// handleName asks for a new display name
func (h *Handler) handleName(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingName})

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return c.Send("Как тебя называть?", markup)
}

// handleWords shows the first page of the vocabulary
func (h *Handler) handleWords(c tele.Context) error {
	return h.showWords(c, 1)
}

// handlePagination handles page navigation
func (h *Handler) handlePagination(c tele.Context, data string) error {
	args, err := callbackArgs(data, pagePrefix, 1)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная страница"})
	}
	return h.showWords(c, int(args[0]))
}

func (h *Handler) showWords(c tele.Context, page int) error {
	userID := c.Sender().ID
	ctx, cancel := requestContext()
	defer cancel()

	p, err := h.services.Vocabulary.ListVocabulary(ctx, nil, "", page)
	if err != nil {
		return h.fail(c, "list vocabulary", userID, err)
	}
	if len(p.Items) == 0 {
		return notice(c, "Нет данных")
	}

	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	// Add pagination buttons
	navRow := tele.Row{}
	if p.Page > 1 {
		navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("%s%d", pagePrefix, p.Page-1)))
	}
	if p.HasNext {
		navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("%s%d", pagePrefix, p.Page+1)))
	}
	if len(navRow) > 0 {
		rows = append(rows, navRow)
	}
	rows = append(rows, markup.Row(btnMainMenu))
	markup.Inline(rows...)

	return h.show(c, renderWords(p), markup)
}
