package usd

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/billy"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/stdiotest"
)

// syncBuffer is a bytes.Buffer safe for the concurrent writes of a logger
// called from a GC cleanup.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestVolume_Path(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		path   string
		want   string
	}{
		{name: "default prefix", path: "log.txt", want: "/usd/log.txt"},
		{name: "nested", path: "a/b.bin", want: "/usd/a/b.bin"},
		{name: "empty path", path: "", want: "/usd/"},
		{name: "leading slash is kept", path: "/x", want: "/usd//x"},
		{name: "no normalization", path: "../etc", want: "/usd/../etc"},
		{name: "custom prefix", prefix: "/sd/", path: "log.txt", want: "/sd/log.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.prefix != "" {
				opts = append(opts, WithPrefix(tt.prefix))
			}
			vol := NewVolume(billy.NewInMemoryFS().Native(), opts...)
			assert.Equal(t, tt.want, vol.Path(tt.path))
		})
	}
}

func TestVolume_Prefix(t *testing.T) {
	vol := NewVolume(billy.NewInMemoryFS().Native())
	assert.Equal(t, MountPrefix, vol.Prefix())

	vol = NewVolume(billy.NewInMemoryFS().Native(), WithPrefix("/card/"))
	assert.Equal(t, "/card/", vol.Prefix())
}

func TestVolume_OpenMissing(t *testing.T) {
	vol, rec, _ := newTestVolume(t)

	f, err := vol.Open("missing.bin")
	assert.Nil(t, f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotOpened)
	assert.Equal(t, errors.CodeUnavailable, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "/usd/missing.bin")

	assert.Equal(t, 1, rec.Calls(stdiotest.CallFopen))
	assert.Equal(t, 0, rec.Calls(stdiotest.CallFclose))
}

func TestVolume_CreateInMissingDirectory(t *testing.T) {
	vol, _, card := newTestVolume(t)

	f, err := vol.Create("nodir/x.bin")
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrNotOpened)

	exists, err := card.Exists("/usd/nodir/x.bin")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVolume_CreateWithoutMount(t *testing.T) {
	vol := NewVolume(billy.NewInMemoryFS().Native())

	_, err := vol.Create("log.txt")
	assert.ErrorIs(t, err, ErrNotOpened, "the card is not mounted")
}

func TestVolume_CreateTruncates(t *testing.T) {
	vol, _, card := newTestVolume(t)
	require.NoError(t, card.WriteFile("/usd/t.txt", []byte("a much longer body"), 0o644))

	f, err := vol.Create("t.txt")
	require.NoError(t, err)
	_, err = f.WriteStr("short")
	require.NoError(t, err)
	_, err = f.Finish()
	require.NoError(t, err)

	stored, err := card.ReadFile("/usd/t.txt")
	require.NoError(t, err)
	assert.Equal(t, "short", string(stored))
}

func TestVolume_CustomPrefix(t *testing.T) {
	card := billy.NewInMemoryFS()
	require.NoError(t, card.MkdirAll("/sd", 0o755))
	vol := NewVolume(card.Native(), WithPrefix("/sd/"))

	f, err := vol.Create("p.txt")
	require.NoError(t, err)
	assert.Equal(t, "/sd/p.txt", f.Path())
	_, err = f.WriteStr("prefixed")
	require.NoError(t, err)
	_, err = f.Finish()
	require.NoError(t, err)

	stored, err := card.ReadFile("/sd/p.txt")
	require.NoError(t, err)
	assert.Equal(t, "prefixed", string(stored))
}

func TestVolume_Logger(t *testing.T) {
	var logs syncBuffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	vol, _, _ := newTestVolume(t, WithLogger(logger))

	_, err := vol.Open("missing.bin")
	require.Error(t, err)

	out := logs.String()
	assert.Contains(t, out, "usd: open failed")
	assert.Contains(t, out, "path=/usd/missing.bin")
	assert.Contains(t, out, "mode=rb")
}

func TestVolume_Default(t *testing.T) {
	previous := Default()
	require.NotNil(t, previous)
	assert.Same(t, previous, Default(), "the default volume is built once")
	assert.Equal(t, MountPrefix, previous.Prefix())
	t.Cleanup(func() { SetDefault(previous) })

	vol, _, card := newTestVolume(t)
	SetDefault(vol)
	assert.Same(t, vol, Default())

	f, err := Create("pkg.txt")
	require.NoError(t, err)
	_, err = f.WriteStr("package level")
	require.NoError(t, err)
	_, err = f.Finish()
	require.NoError(t, err)

	stored, err := card.ReadFile("/usd/pkg.txt")
	require.NoError(t, err)
	assert.Equal(t, "package level", string(stored))

	r, err := Open("pkg.txt")
	require.NoError(t, err)
	data, err := r.ReadFile()
	require.NoError(t, err)
	assert.Equal(t, "package level", string(data))

	_, err = Open("missing.txt")
	assert.ErrorIs(t, err, ErrNotOpened)
}
