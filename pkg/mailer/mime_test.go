package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vss-labs/sourcer-engine/pkg/models"
)

func TestBuildMIME_PlainText(t *testing.T) {
	raw := buildMIME(&OutgoingMessage{
		To:      "jane@acme.com",
		Subject: "Quick question",
		Body:    "Hi Jane,\n\nShort note.",
	})

	assert.Contains(t, raw, "To: jane@acme.com\r\n")
	assert.Contains(t, raw, "Subject: Quick question\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	assert.NotContains(t, raw, "multipart/mixed")
	assert.True(t, strings.HasSuffix(raw, "Hi Jane,\n\nShort note."))
}

func TestBuildMIME_NamedRecipient(t *testing.T) {
	raw := buildMIME(&OutgoingMessage{
		To:            "jane@acme.com",
		RecipientName: "Jane Roe",
		Subject:       "Hello",
		Body:          "body",
	})

	assert.Contains(t, raw, "To: Jane Roe <jane@acme.com>\r\n")
}

func TestBuildMIME_Attachments(t *testing.T) {
	raw := buildMIME(&OutgoingMessage{
		To:      "jane@acme.com",
		Subject: "Deck attached",
		Body:    "See attached.",
		Attachments: []models.Attachment{
			{Name: "deck.pdf", Type: "application/pdf", Content: []byte("%PDF-1.4 fake")},
			{Name: "empty.txt", Content: nil},
		},
	})

	assert.Contains(t, raw, "Content-Type: multipart/mixed; boundary=\"sourcer_attachment_boundary\"")
	assert.Contains(t, raw, "Content-Type: application/pdf; name=\"deck.pdf\"")
	assert.Contains(t, raw, "Content-Disposition: attachment; filename=\"deck.pdf\"")
	assert.NotContains(t, raw, "empty.txt", "attachments with no payload are skipped")

	// The closing boundary must be preceded by CRLF or clients drop the
	// last attachment.
	require.True(t, strings.HasSuffix(raw, "--sourcer_attachment_boundary--"))
	assert.Contains(t, raw, "\r\n--sourcer_attachment_boundary--")
}

func TestBuildMIME_UnknownAttachmentType(t *testing.T) {
	raw := buildMIME(&OutgoingMessage{
		To:      "jane@acme.com",
		Subject: "s",
		Body:    "b",
		Attachments: []models.Attachment{
			{Name: "blob.bin", Content: []byte{0x01, 0x02}},
		},
	})

	assert.Contains(t, raw, "Content-Type: application/octet-stream; name=\"blob.bin\"")
}

func TestBuildMIME_NonASCIISubject(t *testing.T) {
	raw := buildMIME(&OutgoingMessage{
		To:      "jane@acme.com",
		Subject: "Grüße aus Berlin",
		Body:    "b",
	})

	assert.Contains(t, raw, "=?UTF-8?q?")
	assert.NotContains(t, raw, "Subject: Grüße")
}

func TestWrapBase64(t *testing.T) {
	long := strings.Repeat("A", 200)
	wrapped := wrapBase64(long)

	for _, line := range strings.Split(wrapped, "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
	assert.Equal(t, long, strings.ReplaceAll(wrapped, "\r\n", ""))
}
