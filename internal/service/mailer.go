package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"path/filepath"
	"strings"

	"photodrop/internal/config"
)

// Notifier sends the upload confirmation. Send blocks until the transport
// reports an outcome; the caller must not answer the request before then.
type Notifier interface {
	Send(to, subject, body, fileName string, attachment io.Reader) error
}

type smtpSender struct {
	cfg config.MailConfig
}

func NewSMTPSender(cfg config.MailConfig) Notifier {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(to, subject, body, fileName string, attachment io.Reader) error {
	msg, err := buildMessage(s.cfg.From, to, subject, body, fileName, attachment)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg)
}

// buildMessage frames a multipart/mixed mail: a plain-text part followed by
// the base64-encoded attachment.
func buildMessage(from, to, subject, body, fileName string, attachment io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n", mixed.Boundary())
	buf.WriteString("\r\n")

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	textPart, err := mixed.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(textPart, body+"\r\n"); err != nil {
		return nil, err
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	attachHeader := textproto.MIMEHeader{}
	attachHeader.Set("Content-Type", fmt.Sprintf("%s; name=%q", contentType, fileName))
	attachHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	attachHeader.Set("Content-Transfer-Encoding", "base64")
	attachPart, err := mixed.CreatePart(attachHeader)
	if err != nil {
		return nil, err
	}
	if err := writeBase64(attachPart, attachment); err != nil {
		return nil, err
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeBase64 encodes r in RFC 2045 lines of 76 characters.
func writeBase64(w io.Writer, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := io.WriteString(w, encoded[:n]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}
