package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"fake_e164_backend/internal/e164"
	"fake_e164_backend/platform/config"
	"fake_e164_backend/platform/faker"
	"fake_e164_backend/platform/logger"
	"fake_e164_backend/platform/phone"
	"fake_e164_backend/platform/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testOracle = phone.NewOracle()

func newTestProvider(t *testing.T, seed int64) *e164.Provider {
	t.Helper()
	p := e164.NewProvider(testOracle, e164.MustLoadSafeRegistry(), 10000, logger.Nop())
	require.NoError(t, faker.New(seed).AddProvider(p))
	return p
}

func newTestService(t *testing.T, maxCount int) *Service {
	t.Helper()
	cfg := &config.Config{BatchMaxCount: maxCount, BatchWorkers: 4}
	return NewService(newTestProvider(t, 99), cfg, logger.Nop())
}

// memoryObjects is an in-memory StorageService.
type memoryObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	failPut bool
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: make(map[string][]byte), types: make(map[string]string)}
}

var _ storage.StorageService = (*memoryObjects)(nil)

func (m *memoryObjects) EnsureBucketExists(context.Context, string) error { return nil }

func (m *memoryObjects) PutObject(_ context.Context, bucket, key, contentType string, reader io.Reader, size int64) error {
	if m.failPut {
		return errors.New("storage unavailable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: %d != %d", len(data), size)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	m.types[bucket+"/"+key] = contentType
	return nil
}

func (m *memoryObjects) GenerateDownloadURL(_ context.Context, bucket, key string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{
		URL:       "https://objects.test/" + bucket + "/" + key,
		FileKey:   key,
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

func (m *memoryObjects) DownloadFile(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryObjects) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

// recordingQueue remembers enqueued job IDs.
type recordingQueue struct {
	mu   sync.Mutex
	ids  []uuid.UUID
	fail bool
}

func (q *recordingQueue) EnqueueBatch(_ context.Context, id uuid.UUID) error {
	if q.fail {
		return errors.New("redis down")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ids = append(q.ids, id)
	return nil
}
