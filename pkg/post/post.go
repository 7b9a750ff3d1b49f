// Package post models blog posts: validation, storage, description
// generation and the background jobs that run it.
package post

import (
	"errors"
	"fmt"
	"sort"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Field limits, in characters.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 200
	MaxContentLength     = 10000
)

// Post is a stored blog post.
type Post struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Content     string    `json:"content" yaml:"-"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
}

// Input is the user-supplied part of a post.
type Input struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// Validate checks the input against the post schema.
func (in Input) Validate() error {
	return wrapValidation(validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("Title is required"),
			validation.RuneLength(1, MaxTitleLength).Error("Title is too long"),
		),
		validation.Field(&in.Description,
			validation.RuneLength(0, MaxDescriptionLength).Error("Description is too long"),
		),
		contentField(&in.Content),
	))
}

// ValidateContent checks only the content field.
func ValidateContent(content string) error {
	in := Input{Content: content}
	return wrapValidation(validation.ValidateStruct(&in, contentField(&in.Content)))
}

func contentField(content *string) *validation.FieldRules {
	return validation.Field(content,
		validation.Required.Error("Content is required"),
		validation.RuneLength(1, MaxContentLength).Error("Content is too long"),
	)
}

// ValidationError reports schema violations keyed by field name.
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return "invalid post: " + e.Fields.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Fields
}

// Field returns the message for field, or "" when it is valid.
func (e *ValidationError) Field(name string) string {
	if err, ok := e.Fields[name]; ok && err != nil {
		return err.Error()
	}
	return ""
}

// Messages returns the violation messages ordered by field name.
func (e *ValidationError) Messages() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, name := range names {
		if msg := e.Field(name); msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return &ValidationError{Fields: fields}
	}
	return fmt.Errorf("validate post: %w", err)
}

// IsValidationError reports whether err carries schema violations.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
