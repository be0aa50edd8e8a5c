package service

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	attachment := []byte("binary image payload")
	raw, err := buildMessage(
		"noreply@example.com",
		"alice@x.com",
		"Photo Upload Confirmation",
		"Your photo has been successfully uploaded.",
		"1756400000000-a1b2c3-cat.jpg",
		bytes.NewReader(attachment),
	)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, "noreply@example.com", msg.Header.Get("From"))
	require.Equal(t, "alice@x.com", msg.Header.Get("To"))
	require.Equal(t, "Photo Upload Confirmation", msg.Header.Get("Subject"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])

	textPart, err := reader.NextPart()
	require.NoError(t, err)
	require.Contains(t, textPart.Header.Get("Content-Type"), "text/plain")
	body, err := io.ReadAll(textPart)
	require.NoError(t, err)
	require.Contains(t, string(body), "successfully uploaded")

	attachPart, err := reader.NextPart()
	require.NoError(t, err)
	require.Contains(t, attachPart.Header.Get("Content-Type"), "image/jpeg")
	require.Contains(t, attachPart.Header.Get("Content-Disposition"), "1756400000000-a1b2c3-cat.jpg")
	require.Equal(t, "base64", attachPart.Header.Get("Content-Transfer-Encoding"))

	encoded, err := io.ReadAll(attachPart)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	require.Equal(t, attachment, decoded)
}

func TestWriteBase64LineLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBase64(&buf, bytes.NewReader(bytes.Repeat([]byte{0xAB}, 500))))
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\r\n"), "\r\n") {
		require.LessOrEqual(t, len(line), 76)
		require.NotEmpty(t, line)
	}
}
