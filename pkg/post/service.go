package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Service creates posts and generates descriptions for them.
type Service struct {
	store      Store
	dispatcher *Dispatcher
	notifier   Notifier
	now        func() time.Time
	maxDesc    int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithNotifier sets the outcome notifier.
func WithNotifier(n Notifier) ServiceOption {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock sets the time source for CreatedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDescriptionLength bounds generated descriptions.
func WithDescriptionLength(maxLength int) ServiceOption {
	return func(s *Service) {
		if maxLength > 0 {
			s.maxDesc = maxLength
		}
	}
}

// NewService creates a service over store. When describer is non-nil it
// is registered on dispatcher for EventGenerateDescription.
func NewService(store Store, dispatcher *Dispatcher, describer Describer, opts ...ServiceOption) *Service {
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		notifier:   nopNotifier{},
		now:        time.Now,
		maxDesc:    MaxDescriptionLength,
	}
	for _, opt := range opts {
		opt(s)
	}

	if dispatcher != nil && describer != nil {
		dispatcher.Register(EventGenerateDescription, s.describeHandler(describer))
	}
	return s
}

func (s *Service) describeHandler(d Describer) Handler {
	return func(ctx context.Context, ev Event) (string, error) {
		desc, err := d.Describe(ctx, ev.Content)
		if err != nil {
			return "", err
		}
		return CleanDescription(desc, s.maxDesc), nil
	}
}

// Create validates in and persists it as a new post.
func (s *Service) Create(ctx context.Context, in Input) (Post, error) {
	if err := in.Validate(); err != nil {
		s.notifier.Error(err.Error())
		return Post{}, err
	}

	p := Post{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Content:     in.Content,
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		s.notifier.Error(err.Error())
		return Post{}, fmt.Errorf("create post: %w", err)
	}

	s.notifier.Success("Post created successfully")
	return created, nil
}

// Get returns the post with id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Post, error) {
	return s.store.Get(ctx, id)
}

// List returns posts newest first.
func (s *Service) List(ctx context.Context) ([]Post, error) {
	return s.store.List(ctx)
}

// GenerateDescription queues a description job for content and returns
// its ID.
func (s *Service) GenerateDescription(ctx context.Context, content string) (uuid.UUID, error) {
	if err := ValidateContent(content); err != nil {
		return uuid.Nil, err
	}
	if s.dispatcher == nil {
		return uuid.Nil, errors.New("description generation is not configured")
	}
	return s.dispatcher.Send(ctx, Event{Name: EventGenerateDescription, Content: content})
}

// Job returns the current state of a description job.
func (s *Service) Job(id uuid.UUID) (Job, error) {
	if s.dispatcher == nil {
		return Job{}, ErrUnknownJob
	}
	return s.dispatcher.Status(id)
}

// Description waits for a description job and returns its output.
func (s *Service) Description(ctx context.Context, id uuid.UUID) (string, error) {
	if s.dispatcher == nil {
		return "", ErrUnknownJob
	}
	job, err := s.dispatcher.Wait(ctx, id)
	if err != nil {
		return "", err
	}
	if job.Status == JobFailed {
		return "", fmt.Errorf("generate description: %s", job.Error)
	}
	return job.Output, nil
}
