package post_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/pkg/post"
)

func newDispatcher(t *testing.T, workers int) *post.Dispatcher {
	t.Helper()

	d := post.NewDispatcher(context.Background(), workers)
	t.Cleanup(d.Close)
	return d
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestDispatcher_RunsRegisteredHandler(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, 2)
	d.Register("echo", func(_ context.Context, ev post.Event) (string, error) {
		return "got " + ev.Content, nil
	})

	id, err := d.Send(context.Background(), post.Event{Name: "echo", Content: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	job, err := d.Wait(waitCtx(t), id)
	require.NoError(t, err)
	assert.Equal(t, post.JobCompleted, job.Status)
	assert.Equal(t, "got x", job.Output)
	assert.Equal(t, "echo", job.Event)

	status, err := d.Status(id)
	require.NoError(t, err)
	assert.True(t, status.Status.Done())
}

func TestDispatcher_HandlerFailure(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, 1)
	d.Register("fail", func(context.Context, post.Event) (string, error) {
		return "", errors.New("model unavailable")
	})

	id, err := d.Send(context.Background(), post.Event{Name: "fail"})
	require.NoError(t, err)

	job, err := d.Wait(waitCtx(t), id)
	require.NoError(t, err)
	assert.Equal(t, post.JobFailed, job.Status)
	assert.Equal(t, "model unavailable", job.Error)
}

func TestDispatcher_Errors(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, 1)

	_, err := d.Send(context.Background(), post.Event{Name: "missing"})
	require.ErrorIs(t, err, post.ErrUnknownEvent)

	_, err = d.Status(uuid.New())
	require.ErrorIs(t, err, post.ErrUnknownJob)

	_, err = d.Wait(context.Background(), uuid.New())
	require.ErrorIs(t, err, post.ErrUnknownJob)
}

func TestDispatcher_Close(t *testing.T) {
	t.Parallel()

	d := post.NewDispatcher(context.Background(), 1)
	started := make(chan struct{})
	d.Register("block", func(ctx context.Context, _ post.Event) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})

	id, err := d.Send(context.Background(), post.Event{Name: "block"})
	require.NoError(t, err)
	<-started

	d.Close()
	d.Close()

	job, err := d.Wait(waitCtx(t), id)
	require.NoError(t, err)
	assert.Equal(t, post.JobFailed, job.Status)

	_, err = d.Send(context.Background(), post.Event{Name: "block"})
	require.ErrorIs(t, err, post.ErrClosed)
}

func TestDispatcher_WaitHonoursContext(t *testing.T) {
	t.Parallel()

	d := newDispatcher(t, 1)
	release := make(chan struct{})
	d.Register("slow", func(context.Context, post.Event) (string, error) {
		<-release
		return "done", nil
	})
	defer close(release)

	id, err := d.Send(context.Background(), post.Event{Name: "slow"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = d.Wait(ctx, id)
	require.ErrorIs(t, err, context.Canceled)
}
