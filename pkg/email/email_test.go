package email_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-mail/mail"
	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/file"
)

func validMessage() email.Message {
	return email.Message{
		To:      []string{"it@acme.com"},
		Cc:      []string{"cto@acme.com"},
		Subject: "Acme - Gold Support Onboarding",
		Text:    "Dear Jane,",
		HTML:    "<p>Dear Jane,</p>",
	}
}

func TestMessageValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validMessage().Validate())

	tests := []struct {
		name   string
		mutate func(*email.Message)
	}{
		{"no recipients", func(m *email.Message) { m.To = nil }},
		{"bad recipient", func(m *email.Message) { m.To = []string{"not-an-email"} }},
		{"bad cc", func(m *email.Message) { m.Cc = []string{"Jane <jane@acme.com>"} }},
		{"empty subject", func(m *email.Message) { m.Subject = "  " }},
		{"header injection", func(m *email.Message) { m.Subject = "Hi\r\nBcc: x@y.com" }},
		{"no body", func(m *email.Message) { m.Text, m.HTML = "", "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := validMessage()
			tt.mutate(&m)
			assert.ErrorIs(t, m.Validate(), email.ErrInvalidParams)
		})
	}
}

type mockPostmark struct {
	mock.Mock
}

func (m *mockPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

func postmarkConfig() email.Config {
	return email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "onboarding@contoso.com",
		SupportEmail:         "support@contoso.com",
	}
}

func TestNewPostmarkClient_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*email.Config)
		msg    string
	}{
		{"server token", func(c *email.Config) { c.PostmarkServerToken = "" }, "PostmarkServerToken is required"},
		{"account token", func(c *email.Config) { c.PostmarkAccountToken = "" }, "PostmarkAccountToken is required"},
		{"sender", func(c *email.Config) { c.SenderEmail = "" }, "SenderEmail is required"},
		{"sender format", func(c *email.Config) { c.SenderEmail = "nope" }, "SenderEmail must be a valid email address"},
		{"support format", func(c *email.Config) { c.SupportEmail = "nope" }, "SupportEmail must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := postmarkConfig()
			tt.mutate(&cfg)

			client, err := email.NewPostmarkClient(cfg)
			assert.Nil(t, client)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	assert.Panics(t, func() { email.MustNewPostmarkClient(email.Config{}) })
}

func TestPostmarkClient_Send(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.MatchedBy(func(e postmark.Email) bool {
			return e.From == "onboarding@contoso.com" &&
				e.ReplyTo == "support@contoso.com" &&
				e.To == "it@acme.com" &&
				e.Cc == "cto@acme.com" &&
				e.TextBody == "Dear Jane," &&
				e.HTMLBody == "<p>Dear Jane,</p>" &&
				e.TrackLinks == "HtmlOnly"
		})).Return(postmark.EmailResponse{MessageID: "1"}, nil)

		client, err := email.NewPostmarkClient(postmarkConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		require.NoError(t, client.Send(context.Background(), validMessage()))
		api.AssertExpectations(t)
	})

	t.Run("api error code", func(t *testing.T) {
		t.Parallel()
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).
			Return(postmark.EmailResponse{ErrorCode: 300, Message: "Invalid email request"}, nil)

		client, err := email.NewPostmarkClient(postmarkConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		err = client.Send(context.Background(), validMessage())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "300")
	})

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()
		api := &mockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).
			Return(postmark.EmailResponse{}, errors.New("connection reset"))

		client, err := email.NewPostmarkClient(postmarkConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		assert.ErrorIs(t, client.Send(context.Background(), validMessage()), email.ErrFailedToSendEmail)
	})

	t.Run("invalid message", func(t *testing.T) {
		t.Parallel()
		api := &mockPostmark{}
		client, err := email.NewPostmarkClient(postmarkConfig(), email.WithPostmarkAPI(api))
		require.NoError(t, err)
		assert.ErrorIs(t, client.Send(context.Background(), email.Message{}), email.ErrInvalidParams)
		api.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}

type captureDialer struct {
	sent []*mail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*mail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func smtpConfig() email.Config {
	cfg := postmarkConfig()
	cfg.SMTP = email.SMTPConfig{Host: "smtp.contoso.com", Port: 587, TLSMode: "auto"}
	return cfg
}

func TestSMTPSender(t *testing.T) {
	t.Parallel()

	t.Run("multipart alternative", func(t *testing.T) {
		t.Parallel()
		d := &captureDialer{}
		s, err := email.NewSMTPSender(smtpConfig(), email.SMTPWithDialer(d))
		require.NoError(t, err)

		require.NoError(t, s.Send(context.Background(), validMessage()))
		require.Len(t, d.sent, 1)

		m := d.sent[0]
		assert.Equal(t, []string{"it@acme.com"}, m.GetHeader("To"))
		assert.Equal(t, []string{"cto@acme.com"}, m.GetHeader("Cc"))
		assert.Equal(t, []string{"support@contoso.com"}, m.GetHeader("Reply-To"))

		var buf bytes.Buffer
		_, err = m.WriteTo(&buf)
		require.NoError(t, err)
		raw := buf.String()
		assert.Contains(t, raw, "multipart/alternative")
		assert.Less(t, strings.Index(raw, "text/plain"), strings.Index(raw, "text/html"))
	})

	t.Run("dial failure", func(t *testing.T) {
		t.Parallel()
		d := &captureDialer{err: errors.New("535 auth failed")}
		s, err := email.NewSMTPSender(smtpConfig(), email.SMTPWithDialer(d))
		require.NoError(t, err)
		assert.ErrorIs(t, s.Send(context.Background(), validMessage()), email.ErrFailedToSendEmail)
	})

	t.Run("config", func(t *testing.T) {
		t.Parallel()
		cfg := smtpConfig()
		cfg.SMTP.TLSMode = "carrier-pigeon"
		_, err := email.NewSMTPSender(cfg)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)

		cfg = smtpConfig()
		cfg.SMTP.Host = ""
		_, err = email.NewSMTPSender(cfg)
		assert.ErrorIs(t, err, email.ErrInvalidConfig)
	})
}

func TestDevSender(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := file.NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	s := email.NewDevSender(store)
	msg := validMessage()
	msg.Subject = "Acme/Contoso - Gold"
	require.NoError(t, s.Send(ctx, msg))

	objs, err := store.List(ctx, email.DevOutboxPrefix)
	require.NoError(t, err)
	require.Len(t, objs, 3)
	for _, o := range objs {
		assert.Contains(t, o.Key, "acme_contoso_-_gold")
	}

	require.True(t, strings.HasSuffix(objs[0].Key, ".html"))
	html, _, err := file.ReadAll(ctx, store, objs[0].Key)
	require.NoError(t, err)
	assert.Equal(t, msg.HTML, string(html))

	assert.ErrorIs(t, s.Send(ctx, email.Message{}), email.ErrInvalidParams)
}

func TestNew(t *testing.T) {
	t.Parallel()

	store, err := file.NewLocalStorage(t.TempDir(), "")
	require.NoError(t, err)

	s, err := email.New(email.Config{Driver: email.DriverDev}, email.WithDevStorage(store))
	require.NoError(t, err)
	assert.IsType(t, &email.DevSender{}, s)

	_, err = email.New(email.Config{Driver: email.DriverDev})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	cfg := smtpConfig()
	cfg.Driver = email.DriverSMTP
	s, err = email.New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &email.SMTPSender{}, s)

	cfg.Driver = email.DriverPostmark
	s, err = email.New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &email.PostmarkClient{}, s)

	_, err = email.New(email.Config{Driver: "pigeon"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)
}
