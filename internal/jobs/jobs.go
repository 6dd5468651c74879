// Package jobs drives submitted TTS jobs to completion: poll the job's
// status at a fixed interval until it reaches a terminal state or a
// wall-clock deadline expires, then fetch the artifact.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/catfishw/t2s/internal/api"
)

const (
	DefaultInterval = time.Second
	DefaultTimeout  = 5 * time.Minute
)

// Options tunes one run of the poll-and-fetch pipeline.
type Options struct {
	// Interval between status polls. Fixed, no backoff.
	Interval time.Duration

	// Timeout is the hard wall-clock ceiling for reaching a terminal
	// status, measured from the first poll.
	Timeout time.Duration

	// Observer, when set, receives the job projection once per poll,
	// terminal states included. It must not block; it has no effect on
	// loop timing or termination.
	Observer func(api.Job)

	// OnSubmit, when set, is invoked by Run with the new job id as soon
	// as submission succeeds.
	OnSubmit func(jobID string)
}

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// TimeoutError reports that a job did not reach a terminal status within
// the polling deadline. It names the job id so the operator can keep
// tracking or cancel the job manually.
type TimeoutError struct {
	JobID   string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("job %s: timed out after %s", e.JobID, e.Timeout)
}

// FailedError reports a job that ended failed or cancelled. Message is the
// server-supplied error, "Unknown" when the server sent none.
type FailedError struct {
	JobID   string
	Status  api.Status
	Message string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("job %s %s: %s", e.JobID, e.Status, e.Message)
}

// NoArtifactError reports a job that completed without an artifact
// reference, which the service should never produce.
type NoArtifactError struct {
	JobID string
}

func (e *NoArtifactError) Error() string {
	return fmt.Sprintf("job %s: no audio produced", e.JobID)
}

// Await polls the job until it reaches a terminal status and returns that
// projection immediately, with no further polls. When the deadline passes
// first it returns a *TimeoutError. Context cancellation aborts the wait.
func Await(ctx context.Context, c *api.Client, jobID string, opts Options) (api.Job, error) {
	opts = opts.withDefaults()
	start := time.Now()

	for {
		job, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return api.Job{}, err
		}
		if opts.Observer != nil {
			opts.Observer(job)
		}
		if job.Status.Terminal() {
			return job, nil
		}
		if time.Since(start) >= opts.Timeout {
			return api.Job{}, &TimeoutError{JobID: jobID, Timeout: opts.Timeout}
		}

		select {
		case <-ctx.Done():
			return api.Job{}, ctx.Err()
		case <-time.After(opts.Interval):
		}
	}
}

// Fetch classifies a terminal job projection and retrieves its artifact:
// completed with an artifact reference downloads it to destPath; completed
// without one is a *NoArtifactError; failed and cancelled become a
// *FailedError carrying the server's message. Nothing is downloaded unless
// the job succeeded.
func Fetch(ctx context.Context, c *api.Client, jobID string, job api.Job, destPath string) error {
	if job.Status == api.StatusCompleted && job.AudioURL != "" {
		return c.Download(ctx, job.AudioURL, destPath)
	}
	if job.Status == api.StatusCompleted {
		return &NoArtifactError{JobID: jobID}
	}
	msg := job.Error
	if msg == "" {
		msg = "Unknown"
	}
	return &FailedError{JobID: jobID, Status: job.Status, Message: msg}
}

// Run drives the whole pipeline for one submission: submit, await a
// terminal status under the deadline, then fetch the artifact to destPath.
// The submission is issued exactly once; it is never retried.
func Run(ctx context.Context, c *api.Client, sub api.Submission, destPath string, opts Options) error {
	jobID, err := c.Submit(ctx, sub)
	if err != nil {
		return err
	}
	if opts.OnSubmit != nil {
		opts.OnSubmit(jobID)
	}

	job, err := Await(ctx, c, jobID, opts)
	if err != nil {
		return err
	}
	return Fetch(ctx, c, jobID, job, destPath)
}
