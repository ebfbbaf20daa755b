package mailer

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

type gmailTransport struct {
	logger *zap.Logger
	// extra options are appended when building the service, used by tests
	// to point at a local server.
	opts []option.ClientOption
}

// NewGmailTransport returns a Transport that sends through the Gmail API
// as the authenticated user.
func NewGmailTransport(logger *zap.Logger, opts ...option.ClientOption) Transport {
	return &gmailTransport{
		logger: logger.Named("gmail"),
		opts:   opts,
	}
}

var _ Transport = (*gmailTransport)(nil)

func (t *gmailTransport) Send(ctx context.Context, accessToken string, msg *OutgoingMessage) (string, error) {
	if accessToken == "" {
		return "", fmt.Errorf("missing Google access token")
	}
	if msg.To == "" {
		return "", fmt.Errorf("missing recipient address")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, t.opts...)
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create gmail service: %w", err)
	}

	raw := base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString([]byte(buildMIME(msg)))
	sent, err := svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		t.logger.Error("Gmail send failed",
			zap.String("to", msg.To),
			zap.Error(err))
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	t.logger.Info("Email sent",
		zap.String("to", msg.To),
		zap.String("message_id", sent.Id))
	return sent.Id, nil
}
