package service_test

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealloop/backend/internal/service"
)

func TestSaveDataURI(t *testing.T) {
	dir := t.TempDir()
	svc := service.NewImageService(service.NewLocalStore(dir))

	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	url, err := svc.SaveDataURI(context.Background(), payload)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/media/recipes/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/media/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestSaveDataURIMalformed(t *testing.T) {
	svc := service.NewImageService(service.NewLocalStore(t.TempDir()))

	for _, payload := range []string{
		"not-a-data-uri",
		"data:image/png;base64,%%%not-base64%%%",
		"data:text/plain;base64,aGVsbG8=",
		"",
	} {
		_, err := svc.SaveDataURI(context.Background(), payload)
		require.Error(t, err, payload)
		assert.True(t, service.IsValidation(err))
		assert.EqualError(t, err, "malformed image payload")
	}
}
