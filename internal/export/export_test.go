package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForKnownFormats(t *testing.T) {
	for _, format := range []string{"", "text", "txt"} {
		exp, err := For(format)
		require.NoError(t, err)
		assert.Equal(t, "text/plain; charset=utf-8", exp.ContentType())
		assert.Equal(t, "txt", exp.Extension())
	}
}

func TestForUnknownFormat(t *testing.T) {
	_, err := For("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTextExporterNormalizesLineEndings(t *testing.T) {
	data, err := TextExporter{}.Render("doc", "line one\r\nline two")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(data))
}

func TestTextExporterEmptyDocument(t *testing.T) {
	data, err := TextExporter{}.Render("doc", "")
	require.NoError(t, err)
	assert.Empty(t, data)
}
