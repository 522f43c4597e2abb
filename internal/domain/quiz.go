package domain

import (
	"strconv"
	"strings"
)

// QuestionMode selects the prompt direction of a question
type QuestionMode string

const (
	QuestionEnToNative QuestionMode = "en2native"
	QuestionNativeToEn QuestionMode = "native2en"
	QuestionMixed      QuestionMode = "mixed"
)

// AnswerMode selects how a question is answered
type AnswerMode string

const (
	AnswerChoice AnswerMode = "choice"
	AnswerText   AnswerMode = "text"
	AnswerMixed  AnswerMode = "mixed"
)

// ParseQuestionMode validates a question mode; empty means mixed
func ParseQuestionMode(s string) (QuestionMode, error) {
	switch m := QuestionMode(strings.TrimSpace(s)); m {
	case "":
		return QuestionMixed, nil
	case QuestionEnToNative, QuestionNativeToEn, QuestionMixed:
		return m, nil
	default:
		return "", InvalidArgument("unknown question mode: " + s)
	}
}

// ParseAnswerMode validates an answer mode; empty means mixed
func ParseAnswerMode(s string) (AnswerMode, error) {
	switch m := AnswerMode(strings.TrimSpace(s)); m {
	case "":
		return AnswerMixed, nil
	case AnswerChoice, AnswerText, AnswerMixed:
		return m, nil
	default:
		return "", InvalidArgument("unknown answer mode: " + s)
	}
}

// Option is one multiple-choice option. ID is the vocabulary id it was drawn from.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// OptionID returns the option identifier for a vocabulary item
func OptionID(vocabularyID int64) string {
	return strconv.FormatInt(vocabularyID, 10)
}

// AnswerKey is the grading data of a question. It is never rendered.
type AnswerKey struct {
	OptionID string `json:"-"`
	Text     string `json:"-"`
}

// AnswerKeyFor derives the answer key of an item for a resolved question mode.
// Generation and grading both use it so they cannot disagree.
func AnswerKeyFor(item VocabularyItem, mode QuestionMode) AnswerKey {
	return AnswerKey{
		OptionID: OptionID(item.ID),
		Text:     NormalizeAnswer(answerText(item, mode)),
	}
}

// PromptFor returns the text shown to the learner
func PromptFor(item VocabularyItem, mode QuestionMode) string {
	if mode == QuestionNativeToEn {
		return "Слово по-английски: " + item.Meaning
	}
	return "Перевод слова: " + item.Word
}

// OptionText returns what an item contributes as a choice for a question mode
func OptionText(item VocabularyItem, mode QuestionMode) string {
	return answerText(item, mode)
}

func answerText(item VocabularyItem, mode QuestionMode) string {
	if mode == QuestionNativeToEn {
		return item.Word
	}
	return item.Meaning
}

// NormalizeAnswer lowercases and trims a free-text answer
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Question is a single generated quiz question
type Question struct {
	VocabularyID  int64        `json:"vocabulary_id"`
	QuestionMode  QuestionMode `json:"question_mode"`
	AnswerMode    AnswerMode   `json:"answer_mode"`
	Prompt        string       `json:"prompt"`
	Options       []Option     `json:"options,omitempty"`
	Word          string       `json:"word"`
	Pronunciation string       `json:"pronunciation,omitempty"`
	TopicID       *int64       `json:"topic_id,omitempty"`
	Hints         []string     `json:"hints,omitempty"`
	Key           AnswerKey    `json:"-"`
}

// Answer is a learner's response to one question
type Answer struct {
	VocabularyID     int64        `json:"vocabulary_id"`
	QuestionMode     QuestionMode `json:"question_mode"`
	AnswerMode       AnswerMode   `json:"answer_mode"`
	SelectedOptionID string       `json:"selected_option_id,omitempty"`
	Text             string       `json:"text,omitempty"`
}

// Matches grades the answer against a key
func (a Answer) Matches(key AnswerKey) bool {
	if a.AnswerMode == AnswerChoice {
		return a.SelectedOptionID == key.OptionID
	}
	return NormalizeAnswer(a.Text) == key.Text
}

// AnswerResult is the graded outcome of one answer
type AnswerResult struct {
	VocabularyID  int64  `json:"vocabulary_id"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// TestResult is the summary of a graded submission
type TestResult struct {
	Total      int            `json:"total"`
	Correct    int            `json:"correct"`
	Percentage int            `json:"percentage"`
	Results    []AnswerResult `json:"results,omitempty"`
}

// TestRequest holds the parameters of a test generation
type TestRequest struct {
	Count        int
	QuestionMode QuestionMode
	AnswerMode   AnswerMode
	TopicID      *int64
}
