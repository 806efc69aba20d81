//go:build integration

// Integration tests for the MinIO backend. They start a MinIO server with
// testcontainers and therefore need Docker:
//
//	go test -tags=integration ./stdio/minio/...
package minio

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/stdiotest"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
)

// startMinio starts a MinIO container and returns its endpoint.
func startMinio(ctx context.Context, t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     testAccessKey,
				"MINIO_ROOT_PASSWORD": testSecretKey,
			},
			Cmd: []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").
				WithPort("9000/tcp").
				WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start MinIO container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

func TestMinioFS_Suite(t *testing.T) {
	ctx := context.Background()
	endpoint := startMinio(ctx, t)

	client, err := NewClient(endpoint, testAccessKey, testSecretKey, false)
	require.NoError(t, err)

	var n atomic.Int64
	stdiotest.TestSuiteWithSkip(t, func() stdio.Native {
		bucket := fmt.Sprintf("suite-%d", n.Add(1))
		m := New(client, bucket, WithContext(ctx))
		require.NoError(t, m.EnsureBucket(ctx))
		return m.Native()
	}, []string{
		// Object stores have no directories.
		"Write/CreateInNonExistentDir",
	})
}

func TestMinioFS_AppendAndExclusive(t *testing.T) {
	ctx := context.Background()
	endpoint := startMinio(ctx, t)

	client, err := NewClient(endpoint, testAccessKey, testSecretKey, false)
	require.NoError(t, err)
	m := New(client, "append", WithContext(ctx), WithKeyPrefix("card"))
	require.NoError(t, m.EnsureBucket(ctx))
	require.NoError(t, m.EnsureBucket(ctx), "EnsureBucket is idempotent")
	native := m.Native()

	stdiotest.WriteAll(t, native, "/usd/log.txt", []byte("one"))

	h := native.Fopen(cstr.New("/usd/log.txt"), cstr.New("ab"))
	require.False(t, h.IsNull())
	require.Equal(t, 3, native.Fputs(h, cstr.New("two")))
	require.Equal(t, 0, native.Fflush(h))
	require.Equal(t, 0, native.Fclose(h))

	require.Equal(t, "onetwo", string(stdiotest.ReadAll(t, native, "/usd/log.txt")))

	h = native.Fopen(cstr.New("/usd/log.txt"), cstr.New("wbx"))
	require.True(t, h.IsNull(), "exclusive create of an existing object must fail")

	info, err := client.StatObject(ctx, "append", "card/usd/log.txt", minio.StatObjectOptions{})
	require.NoError(t, err)
	require.Equal(t, "text/plain; charset=utf-8", info.ContentType)
}
