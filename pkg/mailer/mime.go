package mailer

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
)

const attachmentBoundary = "sourcer_attachment_boundary"

// buildMIME assembles the raw RFC 2822 message. With no attachments the
// result is a plain text/plain message; otherwise a multipart/mixed body
// with one base64 part per attachment. Every part ends with CRLF before
// the next boundary, including the closing one.
func buildMIME(msg *OutgoingMessage) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("To: %s\r\n", formatRecipient(msg)))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(msg.Subject)))
	b.WriteString("MIME-Version: 1.0\r\n")

	if len(msg.Attachments) == 0 {
		b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		b.WriteString("\r\n")
		b.WriteString(msg.Body)
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", attachmentBoundary))
	b.WriteString("\r\n")

	b.WriteString(fmt.Sprintf("--%s\r\n", attachmentBoundary))
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")

	for _, att := range msg.Attachments {
		if len(att.Content) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("--%s\r\n", attachmentBoundary))
		b.WriteString(fmt.Sprintf("Content-Type: %s; name=\"%s\"\r\n", contentType(att.Type), att.Name))
		b.WriteString("Content-Transfer-Encoding: base64\r\n")
		b.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=\"%s\"\r\n", att.Name))
		b.WriteString("\r\n")
		b.WriteString(wrapBase64(base64.StdEncoding.EncodeToString(att.Content)))
		b.WriteString("\r\n")
	}

	b.WriteString(fmt.Sprintf("--%s--", attachmentBoundary))
	return b.String()
}

func formatRecipient(msg *OutgoingMessage) string {
	if msg.RecipientName == "" {
		return msg.To
	}
	return fmt.Sprintf("%s <%s>", msg.RecipientName, msg.To)
}

// encodeHeader RFC 2047-encodes a header value when it contains non-ASCII
// characters, otherwise passes it through unchanged.
func encodeHeader(value string) string {
	return mime.QEncoding.Encode("UTF-8", value)
}

func contentType(declared string) string {
	if declared == "" {
		return "application/octet-stream"
	}
	return declared
}

// wrapBase64 folds base64 payloads at 76 columns as RFC 2045 requires.
func wrapBase64(encoded string) string {
	const lineLen = 76
	if len(encoded) <= lineLen {
		return encoded
	}

	var b strings.Builder
	for len(encoded) > lineLen {
		b.WriteString(encoded[:lineLen])
		b.WriteString("\r\n")
		encoded = encoded[lineLen:]
	}
	b.WriteString(encoded)
	return b.String()
}
