package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"stock-alert-service/app/domain"

	"github.com/mrz1836/postmark"
)

// alertTag groups pipeline emails in the Postmark activity view.
const alertTag = "low-stock-alert"

type postmarkDispatcher struct {
	client *postmark.Client
	from   string
}

// NewPostmarkDispatcher sends through Postmark's transactional API. The
// account token is not needed for sending, only the server token.
func NewPostmarkDispatcher(serverToken, fromEmail, fromName string) domain.EmailDispatcher {
	from := fromEmail
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromEmail)
	}
	return &postmarkDispatcher{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

func (d *postmarkDispatcher) Send(ctx context.Context, to, subject, htmlBody string) error {
	resp, err := d.client.SendEmail(ctx, postmark.Email{
		From:       d.from,
		To:         to,
		Subject:    subject,
		Tag:        alertTag,
		HTMLBody:   htmlBody,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		slog.ErrorContext(ctx, "[postmarkDispatcher] Send", "sendEmail", err)
		return fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	if resp.ErrorCode > 0 {
		slog.ErrorContext(ctx, "[postmarkDispatcher] Send", "errorCode", resp.ErrorCode, "message", resp.Message)
		return fmt.Errorf("%w: postmark error %d: %s", domain.ErrDispatchFailed, resp.ErrorCode, resp.Message)
	}

	slog.InfoContext(ctx, "[postmarkDispatcher] Send", "to", to, "subject", subject)
	return nil
}
