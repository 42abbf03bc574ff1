package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/onboardkit/pkg/email"
	"github.com/dmitrymomot/onboardkit/pkg/export"
	"github.com/dmitrymomot/onboardkit/pkg/file"
	"github.com/dmitrymomot/onboardkit/pkg/onboarding"
	"github.com/dmitrymomot/onboardkit/pkg/sanitizer"
)

const (
	formatText = "text"
	formatHTML = "html"
	formatBoth = "both"
)

type renderFlags struct {
	input       string
	inputFormat string
	format      string
	out         string
	lang        string
	copy        bool
	mailto      bool
	send        bool
}

func newRenderCmd(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the onboarding email from a JSON or YAML form",
		Example: `  onboard render --input acme.yaml
  onboard render --input acme.json --format html --out ./out
  onboard render --input acme.json --copy --mailto`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, a, f)
		},
	}
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "form data file, - for stdin")
	cmd.Flags().StringVar(&f.inputFormat, "input-format", "", "json|yaml (default from extension)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatBoth, "text|html|both")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write files to this directory instead of stdout")
	cmd.Flags().StringVar(&f.lang, "lang", "", "override the form language")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy the email to the clipboard")
	cmd.Flags().BoolVar(&f.mailto, "mailto", false, "open the mail client addressed to the recipients")
	cmd.Flags().BoolVar(&f.send, "send", false, "deliver the email with the configured driver")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, f renderFlags) error {
	switch f.format {
	case formatText, formatHTML, formatBoth:
	default:
		return fmt.Errorf("unknown format %q: want text, html or both", f.format)
	}

	var data onboarding.FormData
	if err := readInput(cmd.InOrStdin(), f.input, f.inputFormat, &data); err != nil {
		return err
	}
	if f.lang != "" {
		data.Language = f.lang
	}
	data = data.Normalize()
	if err := data.Validate(a.engine.Languages()...); err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := a.engine.Build(ctx, data)
	if err != nil {
		return err
	}

	if f.out != "" {
		if err := writeResult(cmd, f, res); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		if f.format != formatHTML {
			fmt.Fprintln(out, res.Text)
		}
		if f.format != formatText {
			fmt.Fprintln(out, res.HTML)
		}
	}

	if !f.copy && !f.mailto && !f.send {
		return nil
	}
	exp, err := a.exporterFor(ctx)
	if err != nil {
		return err
	}

	if f.copy {
		if err := exp.CopyFormatted(ctx, res.HTML, res.Text); err != nil {
			if errors.Is(err, export.ErrClipboardWrite) {
				return fmt.Errorf("failed to copy, try again: %w", err)
			}
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
	}
	if f.mailto {
		uri, err := exp.OpenInMailClient(ctx, data.To, data.Cc, res.Subject)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "opened", uri)
	}
	if f.send {
		to := sanitizer.SplitList(data.To)
		if len(to) == 0 && data.ContactEmail != "" {
			to = []string{data.ContactEmail}
		}
		msg := email.Message{
			To:      to,
			Cc:      sanitizer.SplitList(data.Cc),
			Subject: res.Subject,
			Text:    res.Text,
			HTML:    res.HTML,
			Tag:     "onboarding",
		}
		if err := exp.Send(ctx, msg); err != nil {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "sent to", strings.Join(to, ", "))
	}
	return nil
}

// writeResult stores the requested formats under f.out, named after the
// company.
func writeResult(cmd *cobra.Command, f renderFlags, res *onboarding.Result) error {
	store, err := file.NewLocalStorage(f.out, "")
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if f.format != formatText {
		if _, err := store.Put(ctx, res.Filename, strings.NewReader(res.HTML), file.WithContentType("text/html; charset=utf-8")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Filename)
	}
	if f.format != formatHTML {
		name := strings.TrimSuffix(res.Filename, ".html") + ".txt"
		if _, err := store.Put(ctx, name, strings.NewReader(res.Text), file.WithContentType("text/plain; charset=utf-8")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
