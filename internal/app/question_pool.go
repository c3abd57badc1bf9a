package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"webinar-portal/internal/domain"
)

// Rand is the randomness a question pool draws from. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// QuestionRepository loads the question set for a webinar topic (from cache/backing store).
type QuestionRepository interface {
	GetQuestions(ctx context.Context, topic string) ([]domain.Question, error)
}

// QuestionPool is an immutable set of questions that hands out random draws.
type QuestionPool struct {
	questions []domain.Question

	mu  sync.Mutex
	rnd Rand
}

// NewQuestionPool validates questions and builds a pool. A nil rnd uses a time-seeded source.
func NewQuestionPool(questions []domain.Question, rnd Rand) (*QuestionPool, error) {
	seen := make(map[int]struct{}, len(questions))
	for _, q := range questions {
		if !q.HasAnswer() {
			return nil, fmt.Errorf("%w: question %d answer is not among its options", domain.ErrInvalidQuestion, q.ID)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %d", domain.ErrInvalidQuestion, q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuestionPool{questions: cloneQuestions(questions), rnd: rnd}, nil
}

// Size reports how many questions the pool holds.
func (p *QuestionPool) Size() int {
	return len(p.questions)
}

// Draw picks count distinct questions uniformly without replacement and shuffles
// each question's options independently. The pool itself is never reordered.
func (p *QuestionPool) Draw(count int) ([]domain.Question, error) {
	if count > len(p.questions) {
		return nil, fmt.Errorf("%w: want %d, have %d", domain.ErrNotEnoughQuestions, count, len(p.questions))
	}
	if count <= 0 {
		return []domain.Question{}, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	idx := make([]int, len(p.questions))
	for i := range idx {
		idx[i] = i
	}
	// partial Fisher-Yates: the first count slots end up a uniform sample
	for i := 0; i < count; i++ {
		j := i + p.rnd.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	drawn := make([]domain.Question, count)
	for i := 0; i < count; i++ {
		q := cloneQuestion(p.questions[idx[i]])
		p.shuffleLocked(q.Options)
		drawn[i] = q
	}
	return drawn, nil
}

func (p *QuestionPool) shuffleLocked(options []string) {
	for i := len(options) - 1; i > 0; i-- {
		j := p.rnd.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}

func cloneQuestions(qs []domain.Question) []domain.Question {
	out := make([]domain.Question, len(qs))
	for i, q := range qs {
		out[i] = cloneQuestion(q)
	}
	return out
}
