package model

import "time"

// Attempt is one user's take of a quiz. At most one attempt exists per
// (quiz, taker); the state machine is none → started → finished.
type Attempt struct {
	ID         int64      `json:"id"`
	QuizID     int64      `json:"quiz_id"`
	TakerID    int64      `json:"taker_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	// Score is the mcq percentage, or nil while in progress and forever
	// when the quiz has no mcq questions (ungraded).
	Score *float64 `json:"score,omitempty"`
	// Room provenance, recorded when the attempt was started from a room.
	RoomID   *int64  `json:"room_id,omitempty"`
	RoomCode *string `json:"room_code,omitempty"`
}

// Finished reports whether the attempt has been submitted.
func (a *Attempt) Finished() bool {
	return a.FinishedAt != nil
}

// Answer is one recorded response within an attempt. SelectedChoiceID is
// set for mcq answers, Text for short answers; both may be empty when the
// question was left unanswered.
type Answer struct {
	ID               int64  `json:"id"`
	AttemptID        int64  `json:"attempt_id"`
	QuestionID       int64  `json:"question_id"`
	SelectedChoiceID *int64 `json:"selected_choice_id,omitempty"`
	Text             string `json:"text"`
}

// AnswerView is an answer joined with its question and selected choice
// for the result view.
type AnswerView struct {
	Answer
	QuestionText   string `json:"question_text"`
	QuestionType   QType  `json:"question_type"`
	SelectedChoice string `json:"selected_choice,omitempty"`
	Correct        *bool  `json:"correct,omitempty"`
}

// SubmitRequest carries the raw answer map keyed "question_<id>".
// For mcq questions the value is a choice id; for short questions it is
// the free text. Malformed values degrade to "unanswered".
type SubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

// AttemptPaper is the taker-facing view of an in-progress attempt:
// the quiz and its questions with correctness stripped from choices.
type AttemptPaper struct {
	Attempt   Attempt         `json:"attempt"`
	Quiz      Quiz            `json:"quiz"`
	Questions []PaperQuestion `json:"questions"`
}

// PaperQuestion is a question as shown to a taker.
type PaperQuestion struct {
	ID       int64         `json:"id"`
	Text     string        `json:"text"`
	QType    QType         `json:"qtype"`
	OrderNum int           `json:"order_num"`
	Choices  []PaperChoice `json:"choices,omitempty"`
}

// PaperChoice is a choice with the is_correct flag withheld.
type PaperChoice struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// AttemptResult is the result view: the finished attempt plus its
// answers joined with question/choice data.
type AttemptResult struct {
	Attempt Attempt      `json:"attempt"`
	Quiz    Quiz         `json:"quiz"`
	Answers []AnswerView `json:"answers"`
}
