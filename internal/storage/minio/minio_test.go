package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pribylovaa/go-content-portal/internal/config"
	"github.com/pribylovaa/go-content-portal/internal/storage"
)

// Интеграционные тесты для пакета minio:
// — поднимают реальный MinIO через testcontainers-go;
// — создают бакет для изображений;
// — проверяют:
//    New: успешное подключение и ошибку при отсутствии бакета;
//    ImageUploadURL: выдачу presigned PUT и валидации по типу/размеру;
//    CheckImageUpload: подтверждение существующего объекта, сбор публичного URL,
//    и ошибки на "чужой" ключ/несуществующий объект.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

// startMinioContainer поднимает контейнер MinIO и возвращает готовый конфиг
// (бакет при необходимости создаётся отдельным "сырым" клиентом).
func startMinioContainer(t *testing.T, createBucket bool) (*config.Config, func()) {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	const (
		image        = "docker.io/minio/minio:latest"
		rootUser     = "root"
		rootPassword = "rootpass"
		bucket       = "media"
	)
	req := tc.ContainerRequest{
		Image: image,
		Env: map[string]string{
			"MINIO_ROOT_USER":     rootUser,
			"MINIO_ROOT_PASSWORD": rootPassword,
		},
		Cmd:          []string{"server", "/data", "--console-address", ":9001"},
		ExposedPorts: []string{"9000/tcp", "9001/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)

	cleanup := func() { _ = c.Terminate(context.Background()) }

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	if createBucket {
		raw, err := mclient.New(fmt.Sprintf("%s:%s", host, port.Port()), &mclient.Options{
			Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
			Secure: false,
		})
		require.NoError(t, err)
		require.NoError(t, raw.MakeBucket(ctx, bucket, mclient.MakeBucketOptions{}))
	}

	cfg := &config.Config{
		S3: config.S3Config{
			Endpoint:      endpoint,
			RootUser:      rootUser,
			RootPassword:  rootPassword,
			Bucket:        bucket,
			PresignTTL:    10 * time.Minute,
			PublicBaseURL: "https://cdn.example.com",
		},
		Media: config.MediaConfig{
			MaxSizeBytes:        1 << 20,
			AllowedContentTypes: []string{"image/jpeg", "image/png", "image/webp"},
		},
	}

	return cfg, cleanup
}

func startMinio(t *testing.T, createBucket bool) (*MediaStorage, func(), string) {
	t.Helper()

	cfg, cleanup := startMinioContainer(t, createBucket)

	st, err := New(context.Background(), cfg)
	if err != nil {
		cleanup()
		t.Fatalf("minio init: %v", err)
	}

	return st, cleanup, cfg.S3.Endpoint
}

// TestIntegration_New_MissingBucket — fail-fast, если бакет не создан.
func TestIntegration_New_MissingBucket(t *testing.T) {
	cfg, cleanup := startMinioContainer(t, false)
	defer cleanup()

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

// TestIntegration_ImageUploadURL_Validations — лимиты размера и allow-list типов.
func TestIntegration_ImageUploadURL_Validations(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()

	_, err := st.ImageUploadURL(ctx, userID, "image/png", 0)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.ImageUploadURL(ctx, userID, "image/png", 2<<20)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.ImageUploadURL(ctx, userID, "application/pdf", 1024)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	info, err := st.ImageUploadURL(ctx, userID, "image/png", 1024)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(info.Key, "images/"+userID.String()+"/"))
	require.True(t, strings.HasSuffix(info.Key, ".png"))
	require.NotEmpty(t, info.UploadURL)
	require.Equal(t, "image/png", info.RequiredHeader["Content-Type"])
}

// TestIntegration_UploadAndConfirm — полный цикл: presign, PUT по выданному URL,
// подтверждение и публичный URL.
func TestIntegration_UploadAndConfirm(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()
	payload := []byte("not-really-a-png")

	info, err := st.ImageUploadURL(ctx, userID, "image/png", int64(len(payload)))
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, info.UploadURL, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/png")
	req.ContentLength = int64(len(payload))
	req.Header.Set("Content-Length", strconv.Itoa(len(payload)))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	publicURL, err := st.CheckImageUpload(ctx, userID, info.Key)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/"+info.Key, publicURL)
}

// TestIntegration_CheckImageUpload_ForeignKeyAndMissing — чужой префикс и
// несуществующий объект.
func TestIntegration_CheckImageUpload_ForeignKeyAndMissing(t *testing.T) {
	st, cleanup, _ := startMinio(t, true)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New()

	_, err := st.CheckImageUpload(ctx, userID, "images/"+uuid.NewString()+"/file.png")
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.CheckImageUpload(ctx, userID, "images/"+userID.String()+"/missing.png")
	require.ErrorIs(t, err, storage.ErrNotFoundObject)
}
