// Package email delivers generated onboarding emails.
//
// Every implementation sends a Message carrying both a plain-text and an HTML
// body, so recipients whose client refuses HTML still get the full content.
// Supported transports:
//   - PostmarkClient for production delivery through the Postmark API
//   - SMTPSender for any SMTP relay, sending multipart/alternative
//   - DevSender for local development (writes messages to file storage)
//
// New picks the transport from Config:
//
//	cfg := config.MustLoad[email.Config]()
//	sender, err := email.New(cfg, email.WithDevStorage(store))
//	if err != nil {
//		return err
//	}
//	err = sender.Send(ctx, email.Message{
//		To:      []string{"it@acme.com"},
//		Subject: res.Subject,
//		Text:    res.Text,
//		HTML:    res.HTML,
//	})
//
// All implementations validate the message before sending. Failures wrap
// ErrFailedToSendEmail; bad input wraps ErrInvalidParams.
package email
