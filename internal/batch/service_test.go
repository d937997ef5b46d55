package batch

import (
	"context"
	"encoding/json"
	"testing"

	"fake_e164_backend/internal/e164"
	"fake_e164_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	svc := newTestService(t, 100)

	cases := []struct {
		name string
		spec Spec
		kind apperr.Kind
	}{
		{"zero count", Spec{Count: 0, Valid: true, Possible: true}, apperr.KindValidation},
		{"over limit", Spec{Count: 101, Valid: true, Possible: true}, apperr.KindValidation},
		{"contradiction", Spec{Count: 1, Valid: true, Possible: false}, apperr.KindPrecondition},
		{"bad format", Spec{Count: 1, Valid: true, Possible: true, Format: "xml"}, apperr.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Validate(tc.spec)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.GetKind(err))
		})
	}

	assert.NoError(t, svc.Validate(Spec{Count: 100, Valid: false, Possible: false, Format: FormatCSV}))
}

func TestGenerateProducesRequestedCount(t *testing.T) {
	svc := newTestService(t, 1000)

	numbers, err := svc.Generate(context.Background(), Spec{Count: 40, Region: "GB", Valid: true, Possible: true})
	require.NoError(t, err)
	require.Len(t, numbers, 40)

	for _, n := range numbers {
		num, err := testOracle.Parse(n, "")
		require.NoError(t, err)
		assert.True(t, testOracle.IsValidForRegion(num, "GB"), n)
	}
}

func TestGenerateUnique(t *testing.T) {
	svc := newTestService(t, 1000)

	numbers, err := svc.Generate(context.Background(), Spec{Count: 200, Region: "AU", Valid: false, Possible: true, Unique: true})
	require.NoError(t, err)

	seen := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
	}
}

func TestGenerateRejectsContradiction(t *testing.T) {
	svc := newTestService(t, 10)

	_, err := svc.Generate(context.Background(), Spec{Count: 3, Valid: true, Possible: false})
	assert.ErrorIs(t, err, e164.ErrContradictoryConstraints)
}

func TestGenerateStopsOnCancel(t *testing.T) {
	svc := newTestService(t, 10000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, Spec{Count: 5000, Valid: true, Possible: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmitRequiresAsyncWiring(t *testing.T) {
	svc := newTestService(t, 10)

	_, err := svc.Submit(context.Background(), Spec{Count: 1, Valid: true, Possible: true})
	assert.ErrorIs(t, err, ErrAsyncDisabled)
}

func newAsyncService(t *testing.T) (*Service, *MemoryStore, *memoryObjects, *recordingQueue) {
	t.Helper()
	svc := newTestService(t, 1000)
	store := NewMemoryStore()
	objects := newMemoryObjects()
	queue := &recordingQueue{}
	svc.SetJobStore(store)
	svc.SetExporter(NewExporter(objects, "fixtures"))
	svc.SetQueue(queue)
	return svc, store, objects, queue
}

func TestSubmitAndProcess(t *testing.T) {
	svc, store, objects, queue := newAsyncService(t)
	ctx := context.Background()

	job, err := svc.Submit(ctx, Spec{Count: 25, Region: "NZ", Valid: true, Possible: true, Unique: true})
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, job.Status)
	assert.Equal(t, FormatJSON, job.Spec.Format)
	require.Equal(t, []uuid.UUID{job.ID}, queue.ids)

	require.NoError(t, svc.ProcessBatch(ctx, job.ID))

	stored, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, stored.Status)
	assert.Equal(t, "batches/"+job.ID.String()+".json", stored.ObjectKey)

	var payload struct {
		Numbers []string `json:"numbers"`
	}
	require.NoError(t, json.Unmarshal(objects.objects["fixtures/"+stored.ObjectKey], &payload))
	assert.Len(t, payload.Numbers, 25)

	url, err := svc.DownloadURL(ctx, stored)
	require.NoError(t, err)
	assert.Equal(t, stored.ObjectKey, url.FileKey)

	require.NoError(t, svc.ProcessBatch(ctx, job.ID), "completed jobs are not reprocessed")
}

func TestProcessRecordsFailure(t *testing.T) {
	svc, store, objects, _ := newAsyncService(t)
	objects.failPut = true
	ctx := context.Background()

	job, err := svc.Submit(ctx, Spec{Count: 3, Region: "US", Valid: true, Possible: true})
	require.NoError(t, err)

	require.Error(t, svc.ProcessBatch(ctx, job.ID))

	stored, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "storage unavailable")

	_, err = svc.DownloadURL(ctx, stored)
	assert.ErrorIs(t, err, ErrNotExported)
}

func TestSubmitEnqueueFailureMarksJobFailed(t *testing.T) {
	svc, store, _, queue := newAsyncService(t)
	queue.fail = true

	_, err := svc.Submit(context.Background(), Spec{Count: 1, Valid: true, Possible: true})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.GetKind(err))

	store.mu.RLock()
	defer store.mu.RUnlock()
	require.Len(t, store.jobs, 1)
	for _, job := range store.jobs {
		assert.Equal(t, StatusFailed, job.Status)
	}
}

func TestProcessUnknownJob(t *testing.T) {
	svc, _, _, _ := newAsyncService(t)

	err := svc.ProcessBatch(context.Background(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))
}
