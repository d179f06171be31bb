package fileextract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("notes.txt"))
	assert.True(t, IsSupported("README.md"))
	assert.True(t, IsSupported("report.PDF"))
	assert.True(t, IsSupported("letter.docx"))
	assert.False(t, IsSupported("image.png"))
	assert.False(t, IsSupported("archive.zip"))
	assert.False(t, IsSupported("noextension"))
}

func TestExtractPlainText(t *testing.T) {
	out, err := Extract("notes.txt", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)

	out, err = Extract("doc.md", []byte("# Title\n\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", out)
}

func TestExtractPlainTextRejectsBinary(t *testing.T) {
	_, err := Extract("notes.txt", []byte{0xff, 0xfe, 0x00, 0x80})
	assert.Error(t, err)
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract("image.png", []byte("data"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractDocx(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	out, err := Extract("letter.docx", buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, out, "First paragraph.")
	assert.Contains(t, out, "Second paragraph.")
}

func TestExtractDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Extract("letter.docx", buf.Bytes())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestExtractDocxNotAnArchive(t *testing.T) {
	_, err := Extract("letter.docx", []byte("plain text pretending to be docx"))
	assert.Error(t, err)
}
