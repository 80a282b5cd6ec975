package apperrors

import "fmt"

// NotFoundError covers unknown or inactive entities.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateWeekError signals that a post set already exists for the target
// week. Callers should treat it as an idempotency signal, not a crash.
type DuplicateWeekError struct {
	AccountID string
	WeekStart string
}

func (e *DuplicateWeekError) Error() string {
	return fmt.Sprintf("posts already generated for account %s, week starting %s", e.AccountID, e.WeekStart)
}

func NewDuplicateWeek(accountID, weekStart string) error {
	return &DuplicateWeekError{AccountID: accountID, WeekStart: weekStart}
}

// InvalidStateError signals an operation against a post set outside the
// pending state.
type InvalidStateError struct {
	PostSetID string
	Status    string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("post set %s already %s", e.PostSetID, e.Status)
}

func NewInvalidState(postSetID, status string) error {
	return &InvalidStateError{PostSetID: postSetID, Status: status}
}

// ValidationError covers malformed input and LLM responses that fail the
// output schema. Never retried.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

func NewValidation(format string, args ...any) error {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// GenerationError wraps a provider failure after retries are exhausted.
type GenerationError struct {
	AccountID string
	Stage     string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for account %s at %s: %v", e.AccountID, e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func NewGeneration(accountID, stage string, err error) error {
	return &GenerationError{AccountID: accountID, Stage: stage, Err: err}
}
