package service

import (
	"context"
	"math/rand/v2"
	"time"

	"vocabtrainer/internal/cache"
	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/metrics"
	"vocabtrainer/internal/repository"

	"go.uber.org/zap"
)

const (
	distractorCount = 3
	// candidates fetched per lookup so that items sharing the correct
	// option's text can be skipped
	distractorCandidates = 2 * distractorCount
	maxTestSize          = 50
)

// QuizService builds tests from a user's study history and grades them
type QuizService struct {
	records   repository.LearningRecordRepository
	vocab     repository.VocabularyRepository
	results   repository.TestResultRepository
	scheduler *SchedulerService
	cache     *cache.Gateway
	metrics   metrics.Collector
	logger    *zap.Logger

	now     func() time.Time
	coin    func() bool
	shuffle func(n int, swap func(i, j int))
}

// NewQuizService creates a new quiz service
func NewQuizService(
	records repository.LearningRecordRepository,
	vocab repository.VocabularyRepository,
	results repository.TestResultRepository,
	scheduler *SchedulerService,
	gateway *cache.Gateway,
	collector metrics.Collector,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		records:   records,
		vocab:     vocab,
		results:   results,
		scheduler: scheduler,
		cache:     gateway,
		metrics:   collector,
		logger:    logger,
		now:       time.Now,
		coin:      func() bool { return rand.IntN(2) == 0 },
		shuffle:   rand.Shuffle,
	}
}

// WithClock replaces the time source used for test history
func (s *QuizService) WithClock(now func() time.Time) *QuizService {
	s.now = now
	return s
}

// GenerateTest builds up to req.Count questions from the user's most
// recently reviewed words. An empty result means there is nothing to test yet.
func (s *QuizService) GenerateTest(ctx context.Context, userID int64, req domain.TestRequest) ([]domain.Question, error) {
	if userID <= 0 {
		return nil, domain.InvalidArgumentf("invalid user id %d", userID)
	}
	if req.Count <= 0 || req.Count > maxTestSize {
		return nil, domain.InvalidArgumentf("count must be between 1 and %d, got %d", maxTestSize, req.Count)
	}
	if req.QuestionMode == "" {
		req.QuestionMode = domain.QuestionMixed
	}
	if req.AnswerMode == "" {
		req.AnswerMode = domain.AnswerMixed
	}
	if _, err := domain.ParseQuestionMode(string(req.QuestionMode)); err != nil {
		return nil, err
	}
	if _, err := domain.ParseAnswerMode(string(req.AnswerMode)); err != nil {
		return nil, err
	}

	pool, err := s.records.QueryLearningRecords(ctx, repository.RecordFilter{
		UserID:  userID,
		TopicID: req.TopicID,
	}, 2*req.Count, repository.OrderLastReviewedDesc)
	if err != nil {
		return nil, domain.Storage("query recent records", err)
	}
	if len(pool) == 0 {
		return []domain.Question{}, nil
	}

	pool = pool[:min(req.Count, len(pool))]
	ids := make([]int64, len(pool))
	for i, rec := range pool {
		ids[i] = rec.VocabularyID
	}
	items, err := s.vocab.GetVocabularyByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Storage("load vocabulary", err)
	}
	byID := make(map[int64]domain.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	questions := make([]domain.Question, 0, len(pool))
	for _, rec := range pool {
		item, ok := byID[rec.VocabularyID]
		if !ok {
			s.logger.Warn("Learning record without vocabulary item",
				zap.Int64("user_id", userID),
				zap.Int64("vocabulary_id", rec.VocabularyID),
			)
			continue
		}
		q, err := s.buildQuestion(ctx, item, s.questionMode(req.QuestionMode), s.answerMode(req.AnswerMode))
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	s.metrics.IncCounter(metrics.TestsGenerated, 1)
	s.logger.Info("Test generated",
		zap.Int64("user_id", userID),
		zap.Int("requested", req.Count),
		zap.Int("questions", len(questions)),
	)

	return questions, nil
}

func (s *QuizService) questionMode(m domain.QuestionMode) domain.QuestionMode {
	if m != domain.QuestionMixed {
		return m
	}
	if s.coin() {
		return domain.QuestionEnToNative
	}
	return domain.QuestionNativeToEn
}

func (s *QuizService) answerMode(m domain.AnswerMode) domain.AnswerMode {
	if m != domain.AnswerMixed {
		return m
	}
	if s.coin() {
		return domain.AnswerChoice
	}
	return domain.AnswerText
}

func (s *QuizService) buildQuestion(ctx context.Context, item domain.VocabularyItem, qm domain.QuestionMode, am domain.AnswerMode) (domain.Question, error) {
	q := domain.Question{
		VocabularyID:  item.ID,
		QuestionMode:  qm,
		AnswerMode:    am,
		Prompt:        domain.PromptFor(item, qm),
		Word:          item.Word,
		Pronunciation: item.Pronunciation,
		TopicID:       item.TopicID,
		Hints:         hints(item, qm),
		Key:           domain.AnswerKeyFor(item, qm),
	}
	if am != domain.AnswerChoice {
		return q, nil
	}

	options, err := s.options(ctx, item, qm)
	if err != nil {
		return q, err
	}
	if options == nil {
		// not enough distinct vocabulary for a choice question
		q.AnswerMode = domain.AnswerText
		return q, nil
	}
	q.Options = options
	return q, nil
}

// options returns the correct option and three distractors in random order,
// or nil if three distractors cannot be found
func (s *QuizService) options(ctx context.Context, item domain.VocabularyItem, qm domain.QuestionMode) ([]domain.Option, error) {
	exclude := []int64{item.ID}
	seen := map[string]bool{domain.NormalizeAnswer(domain.OptionText(item, qm)): true}
	var distractors []domain.VocabularyItem

	take := func(candidates []domain.VocabularyItem) {
		for _, c := range candidates {
			if len(distractors) == distractorCount {
				return
			}
			exclude = append(exclude, c.ID)
			text := domain.NormalizeAnswer(domain.OptionText(c, qm))
			if seen[text] {
				continue
			}
			seen[text] = true
			distractors = append(distractors, c)
		}
	}

	// Same topic first, then any topic
	if item.TopicID != nil {
		candidates, err := s.vocab.RandomVocabularyExcluding(ctx, exclude, distractorCandidates, item.TopicID)
		if err != nil {
			return nil, domain.Storage("load distractors", err)
		}
		take(candidates)
	}
	if len(distractors) < distractorCount {
		candidates, err := s.vocab.RandomVocabularyExcluding(ctx, exclude, distractorCandidates, nil)
		if err != nil {
			return nil, domain.Storage("load distractors", err)
		}
		take(candidates)
	}
	if len(distractors) < distractorCount {
		return nil, nil
	}

	options := make([]domain.Option, 0, distractorCount+1)
	options = append(options, domain.Option{ID: domain.OptionID(item.ID), Text: domain.OptionText(item, qm)})
	for _, d := range distractors {
		options = append(options, domain.Option{ID: domain.OptionID(d.ID), Text: domain.OptionText(d, qm)})
	}
	s.shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options, nil
}

func hints(item domain.VocabularyItem, qm domain.QuestionMode) []string {
	var h []string
	if item.PartOfSpeech != "" {
		h = append(h, item.PartOfSpeech)
	}
	switch {
	case qm == domain.QuestionEnToNative && item.Example != "":
		h = append(h, item.Example)
	case qm == domain.QuestionNativeToEn && item.Word != "":
		h = append(h, "начинается на "+string([]rune(item.Word)[:1]))
	}
	return h
}

// SubmitAnswers grades a test against the stored vocabulary. Each answer
// is also recorded as a study event: quality 4 when correct, 2 otherwise.
func (s *QuizService) SubmitAnswers(ctx context.Context, userID int64, answers []domain.Answer) (*domain.TestResult, error) {
	if userID <= 0 {
		return nil, domain.InvalidArgumentf("invalid user id %d", userID)
	}
	if len(answers) == 0 {
		return nil, domain.InvalidArgument("no answers submitted")
	}

	ids := make([]int64, 0, len(answers))
	for i, a := range answers {
		if a.VocabularyID <= 0 {
			return nil, domain.InvalidArgumentf("answer %d: invalid vocabulary id %d", i, a.VocabularyID)
		}
		if a.QuestionMode != domain.QuestionEnToNative && a.QuestionMode != domain.QuestionNativeToEn {
			return nil, domain.InvalidArgumentf("answer %d: question mode must be %s or %s", i, domain.QuestionEnToNative, domain.QuestionNativeToEn)
		}
		if a.AnswerMode != domain.AnswerChoice && a.AnswerMode != domain.AnswerText {
			return nil, domain.InvalidArgumentf("answer %d: answer mode must be %s or %s", i, domain.AnswerChoice, domain.AnswerText)
		}
		ids = append(ids, a.VocabularyID)
	}

	items, err := s.vocab.GetVocabularyByIDs(ctx, ids)
	if err != nil {
		return nil, domain.Storage("load vocabulary", err)
	}
	byID := make(map[int64]domain.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, a := range answers {
		if _, ok := byID[a.VocabularyID]; !ok {
			return nil, domain.InvalidArgumentf("unknown vocabulary id %d", a.VocabularyID)
		}
	}

	result := &domain.TestResult{Total: len(answers)}
	for _, a := range answers {
		item := byID[a.VocabularyID]
		correct := a.Matches(domain.AnswerKeyFor(item, a.QuestionMode))
		if correct {
			result.Correct++
		}
		result.Results = append(result.Results, domain.AnswerResult{
			VocabularyID:  item.ID,
			Correct:       correct,
			CorrectAnswer: domain.OptionText(item, a.QuestionMode),
		})
	}
	result.Percentage = domain.Percent(result.Correct, result.Total)

	// A failed history write must leave the learning records untouched
	if err := s.results.SaveTestResult(ctx, domain.TestRecord{
		UserID:     userID,
		Total:      result.Total,
		Correct:    result.Correct,
		Percentage: result.Percentage,
		TakenAt:    s.now(),
	}); err != nil {
		s.logger.Error("Failed to save test result", zap.Int64("user_id", userID), zap.Error(err))
		return nil, domain.Storage("save test result", err)
	}
	defer s.cache.InvalidateUser(ctx, userID)

	// Correct answers count as quality 4, wrong ones as quality 2
	for _, r := range result.Results {
		quality := domain.QualityHard
		if r.Correct {
			quality = domain.QualityGood
		}
		if _, err := s.scheduler.applyStudyEvent(ctx, userID, r.VocabularyID, quality, 0); err != nil {
			return nil, err
		}
	}

	s.metrics.IncCounter(metrics.AnswersGraded, int64(result.Total))
	s.logger.Info("Test graded",
		zap.Int64("user_id", userID),
		zap.Int("total", result.Total),
		zap.Int("correct", result.Correct),
	)

	return result, nil
}
