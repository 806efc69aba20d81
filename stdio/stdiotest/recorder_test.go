package stdiotest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/usd/cstr"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/billy"
	"github.com/input-output-hk/catalyst-forge-libs/usd/stdio/stdiotest"
)

func TestRecorder_PassesSuite(t *testing.T) {
	stdiotest.TestSuite(t, func() stdio.Native {
		return stdiotest.NewRecorder(billy.NewInMemoryFS().Native())
	})
}

func TestRecorder_Counts(t *testing.T) {
	rec := stdiotest.NewRecorder(billy.NewInMemoryFS().Native())

	h := rec.Fopen(cstr.New("count.txt"), cstr.New("wb"))
	require.False(t, h.IsNull())
	rec.Fputs(h, cstr.New("a"))
	rec.Fprintf(h, cstr.New("b"))
	rec.Fwrite(h, []byte("c"), 1, 1)
	rec.Fflush(h)
	rec.Ferror(h)
	rec.Feof(h)
	assert.Equal(t, 0, rec.Fclose(h))
	assert.Equal(t, stdio.EOF, rec.Fclose(h))

	for _, name := range []string{
		stdiotest.CallFopen, stdiotest.CallFputs, stdiotest.CallFprintf, stdiotest.CallFwrite,
		stdiotest.CallFflush, stdiotest.CallFerror, stdiotest.CallFeof,
	} {
		assert.Equal(t, 1, rec.Calls(name), name)
	}
	assert.Equal(t, 2, rec.Calls(stdiotest.CallFclose))
	assert.Equal(t, 2, rec.Closes(h))
	assert.Equal(t, 0, rec.Closes(h+1))
}

func TestRecorder_ForcedResults(t *testing.T) {
	rec := stdiotest.NewRecorder(billy.NewInMemoryFS().Native())
	negative := int64(-1)
	failed := stdio.EOF
	rec.FtellResult = &negative
	rec.FcloseResult = &failed
	rec.FwriteLimit = 2

	h := rec.Fopen(cstr.New("forced.bin"), cstr.New("wb"))
	require.False(t, h.IsNull())

	assert.Equal(t, 2, rec.Fwrite(h, []byte("abcd"), 1, 4))
	assert.Equal(t, int64(-1), rec.Ftell(h))
	assert.Equal(t, stdio.EOF, rec.Fclose(h))
	assert.Equal(t, 1, rec.Closes(h), "the wrapped Fclose still runs")
}
