package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/usd"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/billy"
)

// newTestCard returns an in-memory card with /usd mounted and a volume over it.
func newTestCard(t *testing.T) (*billy.FS, *usd.Volume) {
	t.Helper()
	card := billy.NewInMemoryFS()
	require.NoError(t, card.MkdirAll("/usd", 0o755))
	return card, usd.NewVolume(card.Native())
}

func execute(t *testing.T, vol *usd.Volume, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(*cobra.Command) (*usd.Volume, error) {
		return vol, nil
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestPutAndGet(t *testing.T) {
	card, vol := newTestCard(t)
	dir := t.TempDir()
	local := filepath.Join(dir, "in.bin")
	payload := []byte{0, 1, 2, 255, '%', 'd'}
	require.NoError(t, os.WriteFile(local, payload, 0o600))

	out, err := execute(t, vol, "put", local, "in.bin")
	require.NoError(t, err)
	assert.Contains(t, out, "6 bytes to /usd/in.bin")

	stored, err := card.ReadFile("/usd/in.bin")
	require.NoError(t, err)
	assert.Equal(t, payload, stored)

	back := filepath.Join(dir, "out.bin")
	out, err = execute(t, vol, "get", "in.bin", back)
	require.NoError(t, err)
	assert.Contains(t, out, "6 bytes to "+back)

	got, err := os.ReadFile(back)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestCat(t *testing.T) {
	card, vol := newTestCard(t)
	require.NoError(t, card.WriteFile("/usd/log.txt", []byte("hello"), 0o644))

	out, err := execute(t, vol, "cat", "log.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestCatMissing(t *testing.T) {
	_, vol := newTestCard(t)

	_, err := execute(t, vol, "cat", "missing.bin")
	require.Error(t, err)
	assert.ErrorIs(t, err, usd.ErrNotOpened)
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stored string
	}{
		{name: "literal", args: []string{"write", "w.txt", "100%%", "done"}, stored: "100%% done"},
		{name: "formatted", args: []string{"write", "--formatted", "w.txt", "100%%", "done"}, stored: "100% done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card, vol := newTestCard(t)

			out, err := execute(t, vol, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, "/usd/w.txt")
			assert.Contains(t, out, "close=")

			stored, err := card.ReadFile("/usd/w.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.stored, string(stored))
		})
	}
}

func TestPutMissingDirectory(t *testing.T) {
	_, vol := newTestCard(t)
	local := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(local, []byte("x"), 0o600))

	_, err := execute(t, vol, "put", local, "nodir/in.txt")
	assert.ErrorIs(t, err, usd.ErrNotOpened)
}

func TestArgs(t *testing.T) {
	_, vol := newTestCard(t)

	_, err := execute(t, vol, "cat")
	assert.Error(t, err)

	_, err = execute(t, vol, "write", "only-path")
	assert.Error(t, err)
}

func TestLoadVolumeFromConfig(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "usd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "usd", "cfg.txt"), []byte("from disk"), 0o600))

	cfgPath := filepath.Join(t.TempDir(), "usd.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[volume]\nbackend = \"os\"\nroot = \""+filepath.ToSlash(root)+"\"\n"), 0o600))

	cmd := newRootCmd(nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "--log-level", "error", "cat", "cfg.txt"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "from disk", out.String())
}

func TestLoadVolumeInvalidConfig(t *testing.T) {
	cmd := newRootCmd(nil)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--log-level", "loud", "cat", "x.txt"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}
