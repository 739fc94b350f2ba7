package kubejob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/charmbracelet/log"
	"github.com/gnasmp/gnasctl/pkg/launcher"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/kubernetes"
)

const (
	DefaultAttempts     = 4
	DefaultRetryDelay   = time.Second
	DefaultPollInterval = 5 * time.Second
)

var _ launcher.Runner = &Runner{}

// Runner submits invocations as Kubernetes Jobs.
type Runner struct {
	Client  kubernetes.Interface
	Options JobOptions

	// Wait blocks Run until the Job completes or fails.
	Wait bool

	Attempts     uint
	RetryDelay   time.Duration
	PollInterval time.Duration
}

func (r *Runner) Name() string { return "kubernetes" }

func (r *Runner) Run(ctx context.Context, inv *launcher.Invocation) error {
	job, err := NewJob(inv, r.Options)
	if err != nil {
		return err
	}

	created, err := r.create(ctx, job)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	log.Info("Created Kubernetes job", "namespace", created.Namespace, "name", created.Name, "runId", inv.RunID)

	if !r.Wait {
		return nil
	}

	err = r.waitForCompletion(ctx, created.Namespace, created.Name)
	if err != nil && ctx.Err() != nil {
		r.cleanup(created.Namespace, created.Name)
	}
	return err
}

func (r *Runner) create(ctx context.Context, job *batchv1.Job) (*batchv1.Job, error) {
	attempts := r.Attempts
	if attempts == 0 {
		attempts = DefaultAttempts
	}
	delay := r.RetryDelay
	if delay == 0 {
		delay = DefaultRetryDelay
	}

	var created *batchv1.Job
	err := retry.Do(
		func() error {
			var err error
			created, err = r.Client.BatchV1().Jobs(job.Namespace).Create(ctx, job, metav1.CreateOptions{})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Retrying job creation", "attempt", n+1, "name", job.Name, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func isTransient(err error) bool {
	return apierrors.IsServerTimeout(err) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsInternalError(err) ||
		apierrors.IsServiceUnavailable(err)
}

// JobFinished reports whether the Job reached a terminal state and whether
// that state is success.
func JobFinished(job *batchv1.Job) (finished bool, succeeded bool) {
	for _, c := range job.Status.Conditions {
		if c.Status != corev1.ConditionTrue {
			continue
		}
		switch c.Type {
		case batchv1.JobComplete:
			return true, true
		case batchv1.JobFailed:
			return true, false
		}
	}
	return false, false
}

func (r *Runner) waitForCompletion(ctx context.Context, namespace, name string) error {
	interval := r.PollInterval
	if interval == 0 {
		interval = DefaultPollInterval
	}

	var succeeded bool
	err := wait.PollUntilContextCancel(ctx, interval, true, func(ctx context.Context) (bool, error) {
		job, err := r.Client.BatchV1().Jobs(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			if isTransient(err) {
				log.Debug("Transient error polling job", "name", name, "error", err)
				return false, nil
			}
			return false, err
		}
		var finished bool
		finished, succeeded = JobFinished(job)
		if !finished {
			log.Debug("Job still running", "name", name, "active", job.Status.Active)
		}
		return finished, nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("stopped waiting for job %s/%s: %w", namespace, name, err)
		}
		return fmt.Errorf("failed to poll job %s/%s: %w", namespace, name, err)
	}

	if !succeeded {
		log.Error("Kubernetes job failed", "namespace", namespace, "name", name)
		return &launcher.ExitError{Code: 1}
	}
	return nil
}

// cleanup deletes a Job whose wait was interrupted. The caller's context is
// already done, so a short independent one is used.
func (r *Runner) cleanup(namespace, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	policy := metav1.DeletePropagationBackground
	err := r.Client.BatchV1().Jobs(namespace).Delete(ctx, name, metav1.DeleteOptions{PropagationPolicy: &policy})
	if err != nil && !apierrors.IsNotFound(err) {
		log.Error("Failed to delete interrupted job", "namespace", namespace, "name", name, "error", err)
		return
	}
	log.Warn("Deleted interrupted job", "namespace", namespace, "name", name)
}
