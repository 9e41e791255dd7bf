package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/fintrack/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Description,Amount\n2024-01-10,Café,12.50\n2024-01-11,Operação,-3.00\n"

	got, charset := readAll(t, []byte(input))

	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Descrição,Montante\n"))
	require.NoError(t, err)

	got, charset := readAll(t, latin1)

	assert.Equal(t, "Descrição,Montante\n", got)
	assert.NotEqual(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Description\n")...)

	got, charset := readAll(t, input)

	assert.Equal(t, "Date,Description\n", got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	input, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Date,Montante €\n"))
	require.NoError(t, err)

	got, charset := readAll(t, input)

	assert.Equal(t, "Date,Montante €\n", got)
	assert.Equal(t, encoding.UTF16LE, charset)
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	got, charset := readAll(t, nil)

	assert.Empty(t, got)
	assert.Equal(t, encoding.UTF8, charset)
}
