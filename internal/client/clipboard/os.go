package clipboard

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
)

type command struct {
	path string
	args []string
}

// OSClipboard reads and writes the system clipboard by shelling out to the
// platform utility resolved at construction time (pbpaste/pbcopy, wl-paste/
// wl-copy, xclip, xsel, or the Windows equivalents).
type OSClipboard struct {
	read       *command
	write      *command
	classifier *Classifier
}

// NewOSClipboard probes PATH for clipboard utilities and returns an accessor
// bound to the first read and write commands found. A nil classifier selects
// the defaults.
func NewOSClipboard(classifier *Classifier) *OSClipboard {
	if classifier == nil {
		classifier = DefaultClassifier()
	}

	readers := []command{
		{path: "pbpaste"},
		{path: "wl-paste", args: []string{"--no-newline"}},
		{path: "xclip", args: []string{"-selection", "clipboard", "-o"}},
		{path: "xsel", args: []string{"--clipboard", "--output"}},
	}
	writers := []command{
		{path: "pbcopy"},
		{path: "wl-copy"},
		{path: "xclip", args: []string{"-selection", "clipboard"}},
		{path: "xsel", args: []string{"--clipboard", "--input"}},
	}
	if runtime.GOOS == "windows" {
		readers = append([]command{{path: "powershell", args: []string{"-NoProfile", "-Command", "Get-Clipboard"}}}, readers...)
		writers = append([]command{{path: "clip"}}, writers...)
	}

	return &OSClipboard{
		read:       resolve(readers),
		write:      resolve(writers),
		classifier: classifier,
	}
}

func resolve(candidates []command) *command {
	for _, cand := range candidates {
		path, err := exec.LookPath(cand.path)
		if err != nil {
			continue
		}
		return &command{path: path, args: cand.args}
	}
	return nil
}

// Availability reports which clipboard paths were resolved.
func (c *OSClipboard) Availability() Availability {
	switch {
	case c.read != nil:
		return AvailFull
	case c.write != nil:
		return AvailWriteOnly
	default:
		return AvailNone
	}
}

func (c *OSClipboard) ReadText(ctx context.Context) (string, error) {
	if c.read == nil {
		return "", &Error{Kind: KindUnknown, Op: "read", Err: errors.New("no clipboard read utility found")}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.read.path, c.read.args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", &Error{Kind: KindUnavailable, Op: "read", Err: ctxErr}
		}
		return "", c.classifier.Classify("read", err, stderr.String())
	}

	return stdout.String(), nil
}

func (c *OSClipboard) WriteText(ctx context.Context, text string) error {
	if c.write == nil {
		return &Error{Kind: KindUnknown, Op: "write", Err: errors.New("no clipboard write utility found")}
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.write.path, c.write.args...)
	cmd.Stdin = bytes.NewBufferString(text)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &Error{Kind: KindUnavailable, Op: "write", Err: ctxErr}
		}
		return c.classifier.Classify("write", err, stderr.String())
	}
	return nil
}
