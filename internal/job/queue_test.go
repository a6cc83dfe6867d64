package job

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/subgen/backend/internal/db"
)

func newTestQueue(t *testing.T) *JobQueue {
	t.Helper()
	database, err := db.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	q := NewJobQueue(database.DB())
	t.Cleanup(q.Stop)
	return q
}

// waitForStatus polls until the job reaches the wanted status or times out.
func waitForStatus(t *testing.T, q *JobQueue, id string, want JobStatus) *Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := q.GetJob(id)
		if err == nil && j.Status == want {
			return j
		}
		time.Sleep(20 * time.Millisecond)
	}
	j, _ := q.GetJob(id)
	t.Fatalf("job %s never reached %s (last: %+v)", id, want, j)
	return nil
}

func TestEnqueueAndComplete(t *testing.T) {
	q := newTestQueue(t)

	handled := make(chan string, 1)
	q.RegisterHandler(JobGenerate, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		handled <- j.FilePath
		result, _ := json.Marshal(GenerateResult{SRTPath: "abc/out.id.srt", Items: 3})
		j.Result = result
		return nil
	})

	j, err := q.Enqueue(JobGenerate, "ep1.mp4", GenerateParams{TargetLang: "indonesian"})
	if err != nil {
		t.Fatalf("Enqueue returned error: %v", err)
	}
	if j.Status != StatusPending {
		t.Errorf("new job status = %s", j.Status)
	}

	select {
	case path := <-handled:
		if path != "ep1.mp4" {
			t.Errorf("handler got file path %q", path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler never invoked")
	}

	done := waitForStatus(t, q, j.ID, StatusCompleted)
	if done.Progress != 1.0 {
		t.Errorf("completed progress = %v", done.Progress)
	}
	var result GenerateResult
	if err := json.Unmarshal(done.Result, &result); err != nil {
		t.Fatalf("result not persisted: %v", err)
	}
	if result.Items != 3 {
		t.Errorf("persisted result = %+v", result)
	}
}

func TestJobFailure(t *testing.T) {
	q := newTestQueue(t)
	q.RegisterHandler(JobGenerate, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		return errors.New("engine exploded")
	})

	j, err := q.Enqueue(JobGenerate, "ep1.mp4", GenerateParams{TargetLang: "english"})
	if err != nil {
		t.Fatal(err)
	}

	failed := waitForStatus(t, q, j.ID, StatusFailed)
	if failed.Error != "engine exploded" {
		t.Errorf("error message = %q", failed.Error)
	}
}

func TestCancelRunningJob(t *testing.T) {
	q := newTestQueue(t)

	started := make(chan struct{})
	q.RegisterHandler(JobGenerate, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	j, err := q.Enqueue(JobGenerate, "ep1.mp4", GenerateParams{TargetLang: "english"})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}

	if err := q.CancelJob(j.ID); err != nil {
		t.Fatalf("CancelJob returned error: %v", err)
	}
	waitForStatus(t, q, j.ID, StatusCancelled)
}

func TestRetryFailedJob(t *testing.T) {
	q := newTestQueue(t)

	attempts := make(chan int, 2)
	attempt := 0
	q.RegisterHandler(JobGenerate, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		attempt++
		attempts <- attempt
		if attempt == 1 {
			return errors.New("transient")
		}
		return nil
	})

	j, err := q.Enqueue(JobGenerate, "ep1.mp4", GenerateParams{TargetLang: "english"})
	if err != nil {
		t.Fatal(err)
	}
	<-attempts
	waitForStatus(t, q, j.ID, StatusFailed)

	if err := q.RetryJob(j.ID); err != nil {
		t.Fatalf("RetryJob returned error: %v", err)
	}
	<-attempts
	waitForStatus(t, q, j.ID, StatusCompleted)
}

func TestRetryRejectsActiveJob(t *testing.T) {
	q := newTestQueue(t)

	started := make(chan struct{})
	release := make(chan struct{})
	q.RegisterHandler(JobGenerate, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		close(started)
		<-release
		return nil
	})

	j, err := q.Enqueue(JobGenerate, "ep1.mp4", GenerateParams{TargetLang: "english"})
	if err != nil {
		t.Fatal(err)
	}
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}

	if err := q.RetryJob(j.ID); err == nil {
		t.Error("expected retry of a running job to fail")
	}
	close(release)
}

func TestListJobsNewestFirst(t *testing.T) {
	q := newTestQueue(t)
	q.RegisterHandler(JobGenerate, func(ctx context.Context, j *Job, updateProgress func(float64)) error {
		return nil
	})

	first, _ := q.Enqueue(JobGenerate, "a.mp4", GenerateParams{TargetLang: "english"})
	time.Sleep(10 * time.Millisecond)
	second, _ := q.Enqueue(JobGenerate, "b.mp4", GenerateParams{TargetLang: "english"})

	jobs, err := q.ListJobs()
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	if jobs[0].ID != second.ID || jobs[1].ID != first.ID {
		t.Error("jobs not ordered newest first")
	}
}
