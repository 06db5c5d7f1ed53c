package trivia

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies request failures independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidRequest
	KindNotFound
	KindUnprocessable
)

// Status maps a kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified, client-facing failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func unprocessable(msg string) *Error {
	return &Error{Kind: KindUnprocessable, Message: msg}
}

// KindOf reports the kind of err; unclassified errors are internal.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

// Client-facing messages.
const (
	MsgFieldsRequired     = "question, answer, difficulty and category must be provided"
	MsgNotNumeric         = "difficulty and category must be numbers"
	MsgDifficultyRange    = "difficulty must be between 1 and 5"
	MsgTextRequired       = "question and answer must be non-empty text"
	MsgCategoryMissing    = "category doesn't exist"
	MsgSearchTermMissing  = "request doesn't have searchTerm"
	MsgSearchTermType     = "searchTerm must be a string"
	MsgQuizFieldsRequired = "previous_questions and quiz_category must be provided"
	MsgQuizCategoryID     = "quiz_category id must be a number"
	MsgPreviousQuestions  = "previous_questions must be a list of question ids"
	MsgQuestionNotFound   = "question not found"
	MsgPageNotFound       = "page not found"
	MsgCategoryNotFound   = "category not found"
)
