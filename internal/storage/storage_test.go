package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStoragePath(t *testing.T) {
	id := uuid.MustParse("3f2504e0-4f89-11d3-9a0c-0305e82c3301")
	got := generateStoragePath("feedback", id, "record 12.json")
	assert.Equal(t, "feedback/3f/3f2504e0-4f89-11d3-9a0c-0305e82c3301_record_12.json", got)

	got = generateStoragePath("", id, "a/b.json")
	assert.Equal(t, "3f/3f2504e0-4f89-11d3-9a0c-0305e82c3301_a_b.json", got)
}

func TestLocalStorage_Upload(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base, "feedback")
	require.NoError(t, err)

	key, err := s.Upload(context.Background(), uuid.New(), "record.json", bytes.NewBufferString(`{"id":1}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "feedback/"))

	body, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(body))
}

func TestLocalStorage_FailedWriteLeavesNoFile(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base, "")
	require.NoError(t, err)
	id := uuid.New()

	_, err = s.Upload(context.Background(), id, "record.json", iotest.ErrReader(errors.New("stream reset")))
	assert.ErrorContains(t, err, "write file failed")

	_, statErr := os.Stat(filepath.Join(base, filepath.FromSlash(generateStoragePath("", id, "record.json"))))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), Config{Type: StorageTypeS3, S3Region: "us-east-1"})
	assert.ErrorContains(t, err, "bucket")
}
