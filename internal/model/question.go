package model

// QType enumerates question kinds. Only mcq questions are auto-scored.
type QType string

const (
	QTypeMCQ   QType = "mcq"
	QTypeShort QType = "short"
)

// Question belongs to one quiz. OrderNum is the 1-based ordering key
// within the quiz; reorder rewrites positions transactionally.
type Question struct {
	ID       int64  `json:"id"`
	QuizID   int64  `json:"quiz_id"`
	Text     string `json:"text"`
	QType    QType  `json:"qtype"`
	OrderNum int    `json:"order_num"`
}

// Choice belongs to one mcq question.
type Choice struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionWithChoices is a question plus its choice rows, used by the
// attempt engine and the authoring detail view.
type QuestionWithChoices struct {
	Question
	Choices []Choice `json:"choices"`
}

// ChoiceInput is one entry of the submitted choice set. ID is set when
// editing an existing choice; Delete marks it for removal.
type ChoiceInput struct {
	ID        int64  `json:"id"`
	Text      string `json:"text" binding:"max=500"`
	IsCorrect bool   `json:"is_correct"`
	Delete    bool   `json:"delete"`
}

// SaveQuestionRequest is the payload for adding or editing a question
// together with its choice set. OrderNum 0 means "append at the end".
type SaveQuestionRequest struct {
	Text     string        `json:"text" binding:"required,min=1,max=4000"`
	QType    string        `json:"qtype" binding:"required,oneof=mcq short"`
	OrderNum int           `json:"order_num" binding:"min=0"`
	Choices  []ChoiceInput `json:"choices" binding:"omitempty,dive"`
}

// ReorderRequest carries the new question order as an ordered id list.
type ReorderRequest struct {
	Order []int64 `json:"order" binding:"required"`
}
