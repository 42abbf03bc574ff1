// Package export hands a rendered onboarding email to the outside world.
//
// An Exporter bundles four targets, each optional and set with an Option:
//
//   - CopyFormatted puts the HTML and the plain text on the system clipboard
//     together, so a paste target without rich text support still gets text
//   - Download stores the HTML document in a file.Storage under
//     DownloadPrefix and returns its public URL
//   - OpenInMailClient builds a mailto: URI with recipients and subject (no
//     body) and hands it to an Opener
//   - Send delivers text and HTML through an email.Sender
//
// A target that was not configured returns ErrNotConfigured. Every call is
// reported to the Recorder, if any, under its Action name.
//
//	e := export.NewExporter(
//		export.WithClipboard(export.NewCommandClipboard()),
//		export.WithOpener(export.NewCommandOpener(export.ExecRunner)),
//		export.WithStorage(store),
//		export.WithSender(sender),
//	)
//	if err := e.CopyFormatted(ctx, res.HTML, res.Text); errors.Is(err, export.ErrClipboardWrite) {
//		// "failed to copy, try again"
//	}
//
// # Clipboard
//
// CommandClipboard shells out to the platform tools through a Runner, which
// tests replace. Which representations land on the clipboard depends on the
// platform:
//
//   - darwin: osascript sets public.html and public.utf8-plain-text on the
//     general pasteboard in one write; pbcopy (plain only) when osascript is
//     missing or fails
//   - windows: PowerShell sets "HTML Format" (CFHTML) and UnicodeText on one
//     DataObject; clip (plain only) as the fallback
//   - linux: wl-copy, xclip and xsel own a single target per invocation, so
//     only the plain text is placed and the HTML is dropped
//
// A write that can only hold plain text reports ErrRichUnsupported after the
// text is placed; CopyFormatted treats that as success. Any other failure is
// retried once with plain text, and when that fails too the returned error
// wraps ErrClipboardWrite. The error is recoverable: nothing is left half
// written and the caller may simply try again.
//
// ExecRunner gives forked clipboard owners (xclip, wl-copy) a short grace
// period to release stderr instead of blocking until they exit.
package export
