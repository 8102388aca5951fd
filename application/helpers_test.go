package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"nrro-site/domain"
	"nrro-site/infrastructure"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infrastructure.NewDatabase("sqlite", "file::memory:", testLogger())
	require.NoError(t, err)
	require.NoError(t, infrastructure.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, n domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, n)
	return nil
}

func (d *recordingDispatcher) templates() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.sent))
	for i, n := range d.sent {
		out[i] = n.Template
	}
	return out
}

type memFiles struct {
	saved map[string][]byte
}

func (m *memFiles) Save(_ context.Context, prefix, ext string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	path := prefix + "/file" + ext
	m.saved[path] = data
	return path, nil
}

var errBoom = errors.New("boom")
