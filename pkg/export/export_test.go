package export_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/export"
	"github.com/dmitrymomot/onboardkit/pkg/file"
)

type call struct {
	name  string
	args  []string
	stdin string
}

type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	fail  func(c call) error
}

func (f *fakeRunner) run(_ context.Context, name string, args []string, stdin io.Reader) error {
	c := call{name: name, args: args}
	if stdin != nil {
		b, _ := io.ReadAll(stdin)
		c.stdin = string(b)
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
	if f.fail != nil {
		return f.fail(c)
	}
	return nil
}

func lookPathOnly(tools ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, t := range tools {
			if t == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func decodePayload(t *testing.T, stdin string, b64 bool) map[string]string {
	t.Helper()
	raw := []byte(stdin)
	if b64 {
		var err error
		raw, err = base64.StdEncoding.DecodeString(stdin)
		require.NoError(t, err)
	}
	var p map[string]string
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestCommandClipboard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("linux places plain text", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		c := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("linux"), export.WithLookPath(lookPathOnly("wl-copy", "xclip")))

		err := c.Write(ctx, export.Content{HTML: "<p>x</p>", Plain: "x"})
		assert.ErrorIs(t, err, export.ErrRichUnsupported)
		require.Len(t, r.calls, 1)
		assert.Equal(t, call{name: "wl-copy", args: []string{"--type", "text/plain;charset=utf-8"}, stdin: "x"}, r.calls[0])
	})

	t.Run("xclip plain", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		c := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("linux"), export.WithLookPath(lookPathOnly("xclip")))

		require.NoError(t, c.Write(ctx, export.Content{Plain: "x"}))
		assert.Equal(t, []string{"-selection", "clipboard"}, r.calls[0].args)
	})

	t.Run("macos pasteboard holds both", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		c := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("darwin"), export.WithLookPath(lookPathOnly("osascript", "pbcopy")))

		require.NoError(t, c.Write(ctx, export.Content{HTML: "<p>Grüße</p>", Plain: "Grüße"}))
		require.Len(t, r.calls, 1)
		assert.Equal(t, "osascript", r.calls[0].name)
		assert.Contains(t, r.calls[0].args[len(r.calls[0].args)-1], "NSPasteboardTypeHTML")
		assert.Equal(t, map[string]string{"html": "<p>Grüße</p>", "plain": "Grüße"}, decodePayload(t, r.calls[0].stdin, false))
	})

	t.Run("macos plain prefers pbcopy", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		c := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("darwin"), export.WithLookPath(lookPathOnly("osascript", "pbcopy")))

		require.NoError(t, c.Write(ctx, export.Content{Plain: "x"}))
		assert.Equal(t, call{name: "pbcopy", stdin: "x"}, r.calls[0])
	})

	t.Run("macos without osascript", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		c := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("darwin"), export.WithLookPath(lookPathOnly("pbcopy")))

		err := c.Write(ctx, export.Content{HTML: "<p>x</p>", Plain: "x"})
		assert.ErrorIs(t, err, export.ErrRichUnsupported)
		require.Len(t, r.calls, 1)
		assert.Equal(t, "x", r.calls[0].stdin)
	})

	t.Run("windows data object", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		c := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("windows"), export.WithLookPath(lookPathOnly("powershell", "clip")))

		require.NoError(t, c.Write(ctx, export.Content{HTML: "<p>x</p>", Plain: "x"}))
		require.Len(t, r.calls, 1)
		assert.Equal(t, "powershell", r.calls[0].name)
		p := decodePayload(t, r.calls[0].stdin, true)
		assert.Equal(t, "x", p["plain"])
		assert.Equal(t, export.CFHTML("<p>x</p>"), p["html"])
	})

	t.Run("no tool", func(t *testing.T) {
		t.Parallel()
		c := export.NewCommandClipboard(export.WithGOOS("plan9"), export.WithLookPath(lookPathOnly()))
		assert.ErrorIs(t, c.Write(ctx, export.Content{Plain: "x"}), export.ErrNoClipboard)
	})
}

func TestCFHTML(t *testing.T) {
	t.Parallel()

	doc := "<html><body><p>Grüße</p></body></html>"
	out := export.CFHTML(doc)
	require.True(t, strings.HasPrefix(out, "Version:0.9\r\n"))

	offset := func(name string) int {
		i := strings.Index(out, name+":")
		require.GreaterOrEqual(t, i, 0, name)
		n, err := strconv.Atoi(out[i+len(name)+1 : i+len(name)+11])
		require.NoError(t, err)
		return n
	}
	assert.Equal(t, doc, out[offset("StartFragment"):offset("EndFragment")])
	assert.Equal(t, len(out), offset("EndHTML"))
	assert.True(t, strings.HasPrefix(out[offset("StartHTML"):], "<!--StartFragment-->"))
}

type recorder struct {
	mu      sync.Mutex
	actions map[string]int
	errs    map[string]int
}

func (r *recorder) ObserveExport(action string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.actions == nil {
		r.actions, r.errs = map[string]int{}, map[string]int{}
	}
	r.actions[action]++
	if err != nil {
		r.errs[action]++
	}
}

func TestCopyFormatted(t *testing.T) {
	t.Parallel()

	t.Run("plain text placed alongside html", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		clip := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("linux"), export.WithLookPath(lookPathOnly("wl-copy")))
		rec := &recorder{}
		e := export.NewExporter(export.WithClipboard(clip), export.WithRecorder(rec))

		require.NoError(t, e.CopyFormatted(context.Background(), "<p>Hello</p>", "Hello"))
		require.Len(t, r.calls, 1)
		assert.Equal(t, "Hello", r.calls[0].stdin)
		assert.Zero(t, rec.errs[export.ActionClipboard])
	})

	t.Run("both representations in one write", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{}
		clip := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("darwin"), export.WithLookPath(lookPathOnly("osascript", "pbcopy")))
		e := export.NewExporter(export.WithClipboard(clip))

		require.NoError(t, e.CopyFormatted(context.Background(), "<p>Dear Jane,</p>", "Dear Jane,"))
		require.Len(t, r.calls, 1)
		p := decodePayload(t, r.calls[0].stdin, false)
		assert.Equal(t, "<p>Dear Jane,</p>", p["html"])
		assert.Equal(t, "Dear Jane,", p["plain"])
	})

	t.Run("rich failure then plain", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{fail: func(c call) error {
			if c.name == "osascript" {
				return errors.New("no window server")
			}
			return nil
		}}
		clip := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("darwin"), export.WithLookPath(lookPathOnly("osascript", "pbcopy")))
		rec := &recorder{}
		e := export.NewExporter(export.WithClipboard(clip), export.WithRecorder(rec))

		require.NoError(t, e.CopyFormatted(context.Background(), "<p>x</p>", "x"))
		require.Len(t, r.calls, 2)
		assert.Equal(t, call{name: "pbcopy", stdin: "x"}, r.calls[1])
		assert.Equal(t, 1, rec.actions[export.ActionClipboard])
		assert.Zero(t, rec.errs[export.ActionClipboard])
	})

	t.Run("both fail", func(t *testing.T) {
		t.Parallel()
		r := &fakeRunner{fail: func(call) error { return errors.New("exit status 1") }}
		clip := export.NewCommandClipboard(export.WithRunner(r.run), export.WithGOOS("linux"), export.WithLookPath(lookPathOnly("wl-copy")))
		rec := &recorder{}
		e := export.NewExporter(export.WithClipboard(clip), export.WithRecorder(rec))

		err := e.CopyFormatted(context.Background(), "<p>x</p>", "x")
		assert.ErrorIs(t, err, export.ErrClipboardWrite)
		assert.Equal(t, 1, rec.errs[export.ActionClipboard])

		// recoverable: a later attempt can succeed
		r.mu.Lock()
		r.fail = nil
		r.mu.Unlock()
		assert.NoError(t, e.CopyFormatted(context.Background(), "<p>x</p>", "x"))
	})

	t.Run("not configured", func(t *testing.T) {
		t.Parallel()
		err := export.NewExporter().CopyFormatted(context.Background(), "", "x")
		assert.ErrorIs(t, err, export.ErrNotConfigured)
	})
}

func TestDownload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := file.NewLocalStorage(t.TempDir(), "/files/")
	require.NoError(t, err)
	e := export.NewExporter(export.WithStorage(store))

	u, err := e.Download(ctx, "<html></html>", "Acme_Corp_Onboarding_Email.html")
	require.NoError(t, err)
	assert.Equal(t, "/files/exports/Acme_Corp_Onboarding_Email.html", u)

	data, _, err := file.ReadAll(ctx, store, "exports/Acme_Corp_Onboarding_Email.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	u, err = e.Download(ctx, "x", "../../etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "/files/exports/passwd", u)
}

func TestMailtoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, to, cc, subject, want string
	}{
		{"full", "it@acme.com", "cto@acme.com; ops@acme.com", "Acme - Gold Support & more",
			"mailto:it@acme.com?cc=cto@acme.com,ops@acme.com&subject=Acme%20-%20Gold%20Support%20%26%20more"},
		{"to only", "it@acme.com", "", "", "mailto:it@acme.com"},
		{"no recipients", "", "", "Hi", "mailto:?subject=Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, export.MailtoURL(tt.to, tt.cc, tt.subject))
		})
	}
}

type fakeOpener struct{ uri string }

func (o *fakeOpener) Open(_ context.Context, uri string) error {
	o.uri = uri
	return nil
}

func TestOpenInMailClient(t *testing.T) {
	t.Parallel()

	o := &fakeOpener{}
	e := export.NewExporter(export.WithOpener(o))
	uri, err := e.OpenInMailClient(context.Background(), "it@acme.com", "", "Onboarding")
	require.NoError(t, err)
	assert.Equal(t, "mailto:it@acme.com?subject=Onboarding", uri)
	assert.Equal(t, uri, o.uri)

	uri, err = export.NewExporter().OpenInMailClient(context.Background(), "it@acme.com", "", "")
	assert.ErrorIs(t, err, export.ErrNotConfigured)
	assert.Equal(t, "mailto:it@acme.com", uri)
}

func TestCommandOpener(t *testing.T) {
	t.Parallel()

	r := &fakeRunner{}
	o := export.NewCommandOpener(r.run)
	err := o.Open(context.Background(), "mailto:it@acme.com")
	if err != nil {
		// platforms without a known opener
		assert.ErrorIs(t, err, export.ErrNoOpener)
		return
	}
	require.Len(t, r.calls, 1)
	assert.Equal(t, "mailto:it@acme.com", r.calls[0].args[len(r.calls[0].args)-1])
}

type captureSender struct{ msgs []email.Message }

func (s *captureSender) Send(_ context.Context, m email.Message) error {
	s.msgs = append(s.msgs, m)
	return nil
}

func TestSend(t *testing.T) {
	t.Parallel()

	s := &captureSender{}
	e := export.NewExporter(export.WithSender(s))
	msg := email.Message{To: []string{"it@acme.com"}, Subject: "Onboarding", Text: "x", HTML: "<p>x</p>"}
	require.NoError(t, e.Send(context.Background(), msg))
	assert.Equal(t, []email.Message{msg}, s.msgs)

	assert.ErrorIs(t, export.NewExporter().Send(context.Background(), msg), export.ErrNotConfigured)
}
