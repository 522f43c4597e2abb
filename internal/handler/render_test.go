package handler

import (
	"testing"

	"vocabtrainer/internal/domain"
	"vocabtrainer/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestRenderCard(t *testing.T) {
	item := domain.VocabularyItem{
		Word:          "apple",
		Meaning:       "яблоко",
		Pronunciation: "ˈæp.əl",
		Example:       "An apple a day.",
		PartOfSpeech:  "noun",
	}

	assert.Equal(t, "📌 apple [ˈæp.əl]\nnoun\n\n🔄 яблоко\n💬 An apple a day.\n\nКарточек осталось: 3", renderCard(item, 3))
	assert.Equal(t, "📌 cat\n\n🔄 кот\n\nКарточек осталось: 1", renderCard(domain.VocabularyItem{Word: "cat", Meaning: "кот"}, 1))
}

func TestRenderQuestion(t *testing.T) {
	q := domain.Question{
		QuestionMode:  domain.QuestionEnToNative,
		AnswerMode:    domain.AnswerText,
		Prompt:        "Перевод слова: apple",
		Pronunciation: "ˈæp.əl",
		Hints:         []string{"noun"},
	}

	assert.Equal(t, "❓ Вопрос 2/5\n\nПеревод слова: apple [ˈæp.əl]\n💡 noun\n\nНапиши ответ сообщением", renderQuestion(q, 1, 5))

	q.QuestionMode = domain.QuestionNativeToEn
	q.AnswerMode = domain.AnswerChoice
	q.Prompt = "Слово по-английски: яблоко"
	q.Hints = nil
	assert.Equal(t, "❓ Вопрос 1/1\n\nСлово по-английски: яблоко", renderQuestion(q, 0, 1))
}

func TestRenderResult(t *testing.T) {
	r := &domain.TestResult{
		Total:      3,
		Correct:    1,
		Percentage: 33,
		Results: []domain.AnswerResult{
			{VocabularyID: 1, Correct: true, CorrectAnswer: "кот"},
			{VocabularyID: 2, Correct: false, CorrectAnswer: "собака"},
			{VocabularyID: 3, Correct: false, CorrectAnswer: "bird"},
		},
	}

	assert.Equal(t, "🏁 Результат: 1 из 3 (33%)\n\nПравильные ответы на ошибки:\n• собака\n• bird", renderResult(r))
	assert.Equal(t, "🏁 Результат: 2 из 2 (100%)", renderResult(&domain.TestResult{Total: 2, Correct: 2, Percentage: 100}))
}

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, renderProgress(domain.UserProgress{}), "/study")

	text := renderProgress(domain.UserProgress{TotalLearned: 10, Mastered: 3, Learning: 5, Difficult: 2, MasteryPercentage: 30, Accuracy: 80})
	assert.Contains(t, text, "Всего слов: 10")
	assert.Contains(t, text, "Освоено: 3 (30%)")
	assert.Contains(t, text, "Точность ответов: 80%")
}

func TestRenderTopicsAndWords(t *testing.T) {
	topics := renderTopics([]domain.TopicProgressView{
		{Topic: domain.Topic{Name: "Food"}, VocabularyCount: 20, Learned: 4, Mastered: 1, MasteryPercentage: 25},
	})
	assert.Equal(t, "🗂 Темы (нажми, чтобы выбрать):\n\nFood: 4/20 слов, освоено 25%", topics)

	words := renderWords(service.VocabularyPage{Page: 2, Items: []domain.VocabularyItem{{Word: "cat", Meaning: "кот"}}})
	assert.Equal(t, "📖 Словарь, страница 2\n\ncat: кот", words)
}
