package app

import (
	"webinar-portal/internal/domain"
)

// DefaultQuestionCount is how many questions an attempt draws from the pool.
const DefaultQuestionCount = 6

// QuizState is the phase of a quiz attempt.
type QuizState string

const (
	QuizAwaitingSelection QuizState = "awaiting_selection"
	QuizAnswered          QuizState = "answered"
	QuizCompleted         QuizState = "completed"
	QuizFailed            QuizState = "failed"
)

// Reveal is the outcome of confirming an answer, shown before the runner advances.
type Reveal struct {
	Index         int    `json:"index"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correctAnswer"`
	Correct       bool   `json:"correct"`
	Score         int    `json:"score"`
}

// QuizRunner walks a drawn question sequence one question at a time.
// It is not safe for concurrent use; the owning Portal serializes access.
type QuizRunner struct {
	questions []domain.Question
	state     QuizState
	index     int
	selected  string
	score     int
	err       error
}

// NewQuizRunner starts an attempt over questions. An empty set puts the runner in
// the failed state instead of producing a score.
func NewQuizRunner(questions []domain.Question) *QuizRunner {
	r := &QuizRunner{questions: questions, state: QuizAwaitingSelection}
	if len(questions) == 0 {
		r.state = QuizFailed
		r.err = domain.ErrNoQuestions
	}
	return r
}

func (r *QuizRunner) State() QuizState {
	return r.state
}

// Err is the reason the runner is in the failed state.
func (r *QuizRunner) Err() error {
	return r.err
}

func (r *QuizRunner) Index() int {
	return r.index
}

func (r *QuizRunner) Total() int {
	return len(r.questions)
}

func (r *QuizRunner) Score() int {
	return r.score
}

// Selected is the option currently chosen for the active question.
func (r *QuizRunner) Selected() string {
	return r.selected
}

// Current returns the active question, or false once the attempt is over.
func (r *QuizRunner) Current() (domain.Question, bool) {
	if r.state != QuizAwaitingSelection && r.state != QuizAnswered {
		return domain.Question{}, false
	}
	return r.questions[r.index], true
}

// Select chooses an option for the active question. Answers are locked once confirmed.
func (r *QuizRunner) Select(option string) error {
	if r.state != QuizAwaitingSelection {
		return domain.ErrInvalidTransition
	}
	q := r.questions[r.index]
	for _, opt := range q.Options {
		if opt == option {
			r.selected = option
			return nil
		}
	}
	return domain.ErrUnknownOption
}

// Confirm locks the selection, scores it by exact string match and enters Answered.
func (r *QuizRunner) Confirm() (Reveal, error) {
	if r.state != QuizAwaitingSelection || r.selected == "" {
		return Reveal{}, domain.ErrInvalidTransition
	}
	q := r.questions[r.index]
	correct := r.selected == q.Answer
	if correct {
		r.score++
	}
	r.state = QuizAnswered
	return Reveal{
		Index:         r.index,
		Selected:      r.selected,
		CorrectAnswer: q.Answer,
		Correct:       correct,
		Score:         r.score,
	}, nil
}

// Advance leaves Answered(index) once the reveal delay has elapsed. A stale index is rejected.
func (r *QuizRunner) Advance(index int) error {
	if r.state != QuizAnswered || r.index != index {
		return domain.ErrInvalidTransition
	}
	r.selected = ""
	if r.index+1 < len(r.questions) {
		r.index++
		r.state = QuizAwaitingSelection
		return nil
	}
	r.state = QuizCompleted
	return nil
}

// Result is available once the attempt is completed.
func (r *QuizRunner) Result() (domain.QuizResult, bool) {
	if r.state != QuizCompleted {
		return domain.QuizResult{}, false
	}
	total := len(r.questions)
	threshold := domain.PassThreshold(total)
	return domain.QuizResult{
		Score:     r.score,
		Total:     total,
		Threshold: threshold,
		Passed:    r.score >= threshold,
	}, true
}

// Retry restarts a completed attempt over the same questions.
func (r *QuizRunner) Retry() error {
	if r.state != QuizCompleted {
		return domain.ErrInvalidTransition
	}
	r.index = 0
	r.score = 0
	r.selected = ""
	r.state = QuizAwaitingSelection
	return nil
}
