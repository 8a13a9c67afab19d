package mailer

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/hireloop-dev/hireloop/internal/notify"
)

const mimeBoundary = "hireloop-mail-boundary"

// BuildMIME renders the full RFC 5322 message. A calendar invite becomes a
// text/calendar attachment inside a multipart/mixed body so mail clients
// offer add-to-calendar handling.
func BuildMIME(from, to string, message *notify.MailMessage) []byte {
	var b strings.Builder

	writeHeader := func(key, value string) {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\r\n")
	}

	writeHeader("From", from)
	writeHeader("To", to)
	writeHeader("Subject", message.Subject)
	writeHeader("Date", time.Now().UTC().Format(time.RFC1123Z))
	writeHeader("MIME-Version", "1.0")

	body := textBody(message)

	if message.Calendar == nil {
		writeHeader("Content-Type", "text/plain; charset=utf-8")
		b.WriteString("\r\n")
		b.WriteString(body)
		return []byte(b.String())
	}

	writeHeader("Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mimeBoundary))
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	ics := message.Calendar.ICS()
	b.WriteString("--" + mimeBoundary + "\r\n")
	b.WriteString("Content-Type: text/calendar; method=REQUEST; charset=utf-8\r\n")
	b.WriteString("Content-Disposition: attachment; filename=\"invite.ics\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString([]byte(ics))))
	b.WriteString("\r\n")

	b.WriteString("--" + mimeBoundary + "--\r\n")

	return []byte(b.String())
}

func textBody(message *notify.MailMessage) string {
	var b strings.Builder

	if message.Greeting != "" {
		b.WriteString(message.Greeting)
		b.WriteString("\r\n\r\n")
	}

	for _, line := range message.Lines {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	if message.Action != nil {
		b.WriteString("\r\n")
		b.WriteString(fmt.Sprintf("%s: %s\r\n", message.Action.Label, message.Action.URL))
	}

	b.WriteString("\r\nThe Hireloop team\r\n")

	return b.String()
}

func wrapBase64(s string) string {
	const width = 76

	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteString("\r\n")
		s = s[width:]
	}
	b.WriteString(s)

	return b.String()
}
