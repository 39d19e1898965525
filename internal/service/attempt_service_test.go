package service

import (
	"testing"

	"github.com/quizroom/quizroom-backend/internal/model"
)

func mcq(id int64, correctChoice int64, choiceIDs ...int64) model.QuestionWithChoices {
	q := model.QuestionWithChoices{
		Question: model.Question{ID: id, QType: model.QTypeMCQ},
	}
	for _, cid := range choiceIDs {
		q.Choices = append(q.Choices, model.Choice{
			ID:        cid,
			IsCorrect: cid == correctChoice,
		})
	}
	return q
}

func short(id int64) model.QuestionWithChoices {
	return model.QuestionWithChoices{
		Question: model.Question{ID: id, QType: model.QTypeShort},
	}
}

func TestScoreSubmissionAllCorrect(t *testing.T) {
	questions := []model.QuestionWithChoices{
		mcq(1, 10, 10, 11),
		mcq(2, 21, 20, 21),
	}
	answers, score := scoreSubmission(questions, map[string]string{
		"question_1": "10",
		"question_2": "21",
	})

	if score == nil || *score != 100 {
		t.Fatalf("score = %v, want 100", score)
	}
	if len(answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(answers))
	}
	for _, a := range answers {
		if a.SelectedChoiceID == nil {
			t.Errorf("question %d: selected choice not recorded", a.QuestionID)
		}
	}
}

func TestScoreSubmissionPartial(t *testing.T) {
	questions := []model.QuestionWithChoices{
		mcq(1, 10, 10, 11),
		mcq(2, 21, 20, 21),
		mcq(3, 31, 30, 31),
		mcq(4, 41, 40, 41),
	}
	_, score := scoreSubmission(questions, map[string]string{
		"question_1": "10", // correct
		"question_2": "20", // wrong
		"question_3": "31", // correct
		// question_4 unanswered
	})

	if score == nil || *score != 50 {
		t.Fatalf("score = %v, want 50", score)
	}
}

func TestScoreSubmissionShortOnlyHasNoScore(t *testing.T) {
	questions := []model.QuestionWithChoices{short(1), short(2)}
	answers, score := scoreSubmission(questions, map[string]string{
		"question_1": "free text answer",
	})

	if score != nil {
		t.Fatalf("score = %v, want nil for a quiz with no mcq questions", *score)
	}
	if answers[0].Text != "free text answer" {
		t.Errorf("short answer text = %q", answers[0].Text)
	}
	if answers[1].Text != "" {
		t.Errorf("unanswered short question should store empty text, got %q", answers[1].Text)
	}
}

func TestScoreSubmissionTrimsShortText(t *testing.T) {
	questions := []model.QuestionWithChoices{short(1), short(2)}
	answers, _ := scoreSubmission(questions, map[string]string{
		"question_1": "  padded answer  ",
		"question_2": "   ",
	})

	if answers[0].Text != "padded answer" {
		t.Errorf("short answer text = %q, want %q", answers[0].Text, "padded answer")
	}
	if answers[1].Text != "" {
		t.Errorf("whitespace-only answer should store empty text, got %q", answers[1].Text)
	}
}

func TestScoreSubmissionMixed(t *testing.T) {
	// Short questions must not dilute the mcq percentage.
	questions := []model.QuestionWithChoices{
		mcq(1, 10, 10, 11),
		short(2),
		mcq(3, 30, 30, 31),
	}
	_, score := scoreSubmission(questions, map[string]string{
		"question_1": "10",
		"question_2": "essay",
		"question_3": "31",
	})

	if score == nil || *score != 50 {
		t.Fatalf("score = %v, want 50 (1 of 2 mcq)", score)
	}
}

func TestScoreSubmissionMalformedValues(t *testing.T) {
	questions := []model.QuestionWithChoices{
		mcq(1, 10, 10, 11),
		mcq(2, 21, 20, 21),
	}
	answers, score := scoreSubmission(questions, map[string]string{
		"question_1": "not-a-number",
		"question_2": "9999", // id from some other question
	})

	if score == nil || *score != 0 {
		t.Fatalf("score = %v, want 0", score)
	}
	for _, a := range answers {
		if a.SelectedChoiceID != nil {
			t.Errorf("question %d: malformed value should read as unanswered", a.QuestionID)
		}
	}
}

func TestScoreSubmissionEmptyQuiz(t *testing.T) {
	answers, score := scoreSubmission(nil, map[string]string{"question_1": "10"})
	if score != nil {
		t.Fatalf("score = %v, want nil for an empty quiz", *score)
	}
	if len(answers) != 0 {
		t.Fatalf("answers = %d, want 0", len(answers))
	}
}

func TestScoreSubmissionEveryQuestionGetsARow(t *testing.T) {
	questions := []model.QuestionWithChoices{
		mcq(1, 10, 10, 11),
		short(2),
		mcq(3, 30, 30, 31),
	}
	answers, _ := scoreSubmission(questions, nil)
	if len(answers) != 3 {
		t.Fatalf("answers = %d, want one row per question", len(answers))
	}
}
