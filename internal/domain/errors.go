package domain

import "errors"

var (
	// ErrParticipantNotFound is returned by stores for an unknown participant id.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrParticipantActive is returned when registering while a participant is already held.
	ErrParticipantActive = errors.New("a participant is already active")
	// ErrNoActiveParticipant is returned by session operations that need a registered participant.
	ErrNoActiveParticipant = errors.New("no active participant")
	// ErrInvalidStatusUpdate rejects empty updates and updates that clear a flag.
	ErrInvalidStatusUpdate = errors.New("status update must set at least one flag to true")
	// ErrStatusSync marks a status update that was applied locally but not persisted.
	ErrStatusSync = errors.New("status update not persisted")
	// ErrQuestionsNotFound indicates no question pool exists for a topic.
	ErrQuestionsNotFound = errors.New("question pool not found")
	// ErrNotEnoughQuestions is returned when a draw asks for more questions than the pool holds.
	ErrNotEnoughQuestions = errors.New("not enough questions in pool")
	// ErrInvalidQuestion indicates a question whose answer is not among its options.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrNoQuestions marks a quiz attempt started with an empty question set.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrInvalidTransition is returned for an operation not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownOption indicates a selection that is not one of the displayed options.
	ErrUnknownOption = errors.New("option not found")
	// ErrNotPassed is returned when a certificate is requested without a passing verdict.
	ErrNotPassed = errors.New("quiz not passed")
	// ErrInvalidCredentials is returned by a failed admin login.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnknownField indicates a form field name that does not exist.
	ErrUnknownField = errors.New("unknown field")
	// ErrValidation wraps field validation failures.
	ErrValidation = errors.New("validation failed")
)
