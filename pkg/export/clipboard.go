package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"
)

// Content is what gets placed on the clipboard. HTML is optional.
type Content struct {
	HTML  string
	Plain string
}

// Clipboard writes content to the system clipboard. Plain is always placed.
// HTML is placed next to it in the same clipboard ownership when the backend
// can hold both; otherwise the HTML is dropped and Write returns
// ErrRichUnsupported after the plain text is on the clipboard.
type Clipboard interface {
	Write(ctx context.Context, c Content) error
}

// Runner executes an external command with stdin.
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) error

// waitDelay bounds how long Run waits for stderr after the tool exits.
// xclip and wl-copy fork a child that keeps serving the selection and
// inherits the pipe.
const waitDelay = 500 * time.Millisecond

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args []string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.WaitDelay = waitDelay
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		return fmt.Errorf("%s: %w: %s", name, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

// clipTool describes one clipboard program. Tools with both set receive an
// encoded payload carrying HTML and plain text; the rest receive Plain.
type clipTool struct {
	name   string
	args   []string
	both   bool
	encode func(Content) ([]byte, error)
}

// pasteboardScript sets public.html and public.utf8-plain-text in one
// pasteboard write. stdin is JSON {"html","plain"}.
const pasteboardScript = `ObjC.import('AppKit');
var data = $.NSFileHandle.fileHandleWithStandardInput.readDataToEndOfFile;
var p = JSON.parse($.NSString.alloc.initWithDataEncoding(data, $.NSUTF8StringEncoding).js);
var pb = $.NSPasteboard.generalPasteboard;
pb.clearContents;
if (p.html) { pb.setStringForType($(p.html), $.NSPasteboardTypeHTML); }
pb.setStringForType($(p.plain), $.NSPasteboardTypeString);`

// dataObjectScript sets "HTML Format" and UnicodeText on one DataObject.
// stdin is base64 of JSON {"html","plain"} with html already in CF_HTML form.
const dataObjectScript = `$ErrorActionPreference = 'Stop'
Add-Type -AssemblyName System.Windows.Forms
$raw = [Text.Encoding]::UTF8.GetString([Convert]::FromBase64String([Console]::In.ReadToEnd().Trim()))
$p = $raw | ConvertFrom-Json
$d = New-Object System.Windows.Forms.DataObject
if ($p.html) { $d.SetData('HTML Format', $p.html) }
$d.SetData('UnicodeText', $p.plain)
[System.Windows.Forms.Clipboard]::SetDataObject($d, $true)`

type clipPayload struct {
	HTML  string `json:"html"`
	Plain string `json:"plain"`
}

func encodePasteboard(c Content) ([]byte, error) {
	return json.Marshal(clipPayload{HTML: c.HTML, Plain: c.Plain})
}

func encodeDataObject(c Content) ([]byte, error) {
	p := clipPayload{Plain: c.Plain}
	if c.HTML != "" {
		p.HTML = CFHTML(c.HTML)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return []byte(base64.StdEncoding.EncodeToString(raw)), nil
}

// Linux tools own a single target per invocation, so HTML is dropped there.
var clipTools = map[string][]clipTool{
	"linux": {
		{name: "wl-copy", args: []string{"--type", "text/plain;charset=utf-8"}},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
	"darwin": {
		{name: "osascript", args: []string{"-l", "JavaScript", "-e", pasteboardScript}, both: true, encode: encodePasteboard},
		{name: "pbcopy"},
	},
	"windows": {
		{name: "powershell", args: []string{"-NoProfile", "-NonInteractive", "-STA", "-Command", dataObjectScript}, both: true, encode: encodeDataObject},
		{name: "clip"},
	},
}

// CFHTML wraps an HTML document in the Windows "HTML Format" header. The
// offsets count bytes from the start of the header.
func CFHTML(doc string) string {
	const (
		header      = "Version:0.9\r\nStartHTML:%010d\r\nEndHTML:%010d\r\nStartFragment:%010d\r\nEndFragment:%010d\r\n"
		startMarker = "<!--StartFragment-->"
		endMarker   = "<!--EndFragment-->"
	)
	startHTML := len(fmt.Sprintf(header, 0, 0, 0, 0))
	startFragment := startHTML + len(startMarker)
	endFragment := startFragment + len(doc)
	endHTML := endFragment + len(endMarker)
	return fmt.Sprintf(header, startHTML, endHTML, startFragment, endFragment) + startMarker + doc + endMarker
}

// CommandClipboard writes to the clipboard through the first available tool.
type CommandClipboard struct {
	run      Runner
	lookPath func(string) (string, error)
	goos     string
}

// ClipboardOption configures CommandClipboard.
type ClipboardOption func(*CommandClipboard)

func WithRunner(r Runner) ClipboardOption {
	return func(c *CommandClipboard) { c.run = r }
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(f func(string) (string, error)) ClipboardOption {
	return func(c *CommandClipboard) { c.lookPath = f }
}

// WithGOOS overrides runtime.GOOS for tool selection.
func WithGOOS(goos string) ClipboardOption {
	return func(c *CommandClipboard) { c.goos = goos }
}

func NewCommandClipboard(opts ...ClipboardOption) *CommandClipboard {
	c := &CommandClipboard{
		run:      ExecRunner,
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Write places content with one tool invocation. With HTML set it prefers a
// tool that holds both representations; plain-only writes prefer a
// single-target tool.
func (c *CommandClipboard) Write(ctx context.Context, content Content) error {
	rich := content.HTML != ""
	tool, err := c.tool(rich)
	if err != nil {
		return err
	}

	stdin := []byte(content.Plain)
	if tool.both {
		if stdin, err = tool.encode(content); err != nil {
			return fmt.Errorf("encode clipboard payload: %w", err)
		}
	}
	if err := c.run(ctx, tool.name, tool.args, bytes.NewReader(stdin)); err != nil {
		return err
	}
	if rich && !tool.both {
		return fmt.Errorf("%w: %s", ErrRichUnsupported, tool.name)
	}
	return nil
}

func (c *CommandClipboard) tool(rich bool) (clipTool, error) {
	var fallback *clipTool
	for _, t := range clipTools[c.goos] {
		if _, err := c.lookPath(t.name); err != nil {
			continue
		}
		if t.both == rich {
			return t, nil
		}
		if fallback == nil {
			fallback = &t
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return clipTool{}, fmt.Errorf("%w on %s", ErrNoClipboard, c.goos)
}
