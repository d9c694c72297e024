package operator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ironsheep/picross-capture/internal/domain"
	"github.com/ironsheep/picross-capture/internal/imaging"
)

// Theme styles console prompts.
type Theme struct {
	Title  lipgloss.Style
	Detail lipgloss.Style
	Prompt lipgloss.Style
	Card   lipgloss.Style
}

// DefaultTheme returns the console styling.
func DefaultTheme() Theme {
	return Theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Detail: lipgloss.NewStyle().Faint(true),
		Prompt: lipgloss.NewStyle().Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

// Console prompts a human on a terminal.
//
// For every unreadable band it writes the band image to a temporary PNG,
// prints its path with the recognition error, and reads a line of
// space-separated integers. Invalid answers are rejected and asked again.
// A Console serves one prompt at a time.
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	theme Theme

	// pending holds a read abandoned by a cancelled prompt. The next prompt
	// takes its line instead of reading in over it.
	pending chan readResult

	// KeepImages leaves the temporary band images on disk.
	KeepImages bool
}

// NewConsole creates a console reading answers from in and writing prompts
// to out.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, theme: DefaultTheme()}
}

// Resolve asks the operator to type the clue line shown in req.Image.
func (c *Console) Resolve(ctx context.Context, req ResolveRequest) (domain.ClueLine, error) {
	var imgPath string
	if req.Image != nil {
		p, err := imaging.SaveImageToTemp(req.Image, fmt.Sprintf("picross-%s-%d", req.Orientation, req.Index))
		if err != nil {
			return nil, fmt.Errorf("save band image: %w", err)
		}
		imgPath = p
		if !c.KeepImages {
			defer os.Remove(p)
		}
	}

	body := c.theme.Title.Render(fmt.Sprintf("Cannot read %s %d", req.Orientation, req.Index+1))
	if req.Cause != nil {
		body += "\n" + c.theme.Detail.Render(req.Cause.Error())
	}
	if imgPath != "" {
		body += "\n" + c.theme.Detail.Render("image: "+imgPath)
	}
	fmt.Fprintln(c.out, c.theme.Card.Render(body))

	for {
		fmt.Fprint(c.out, c.theme.Prompt.Render("clues (space separated, empty for none)> "))
		text, err := c.readLine(ctx)
		if err != nil {
			return nil, err
		}
		line, perr := domain.ParseClueLine(text)
		if perr != nil {
			fmt.Fprintln(c.out, c.theme.Detail.Render(perr.Error()))
			continue
		}
		return line, nil
	}
}

// Acknowledge prints the report and waits for Enter.
func (c *Console) Acknowledge(ctx context.Context, report string) error {
	body := c.theme.Title.Render("Puzzle is inconsistent") + "\n" + report
	fmt.Fprintln(c.out, c.theme.Card.Render(body))
	fmt.Fprint(c.out, c.theme.Prompt.Render("fix the spec file, then press Enter> "))
	_, err := c.readLine(ctx)
	return err
}

type readResult struct {
	text string
	err  error
}

// readLine reads one line without ignoring cancellation. A final line
// without a newline is accepted; EOF with nothing read is an error.
func (c *Console) readLine(ctx context.Context) (string, error) {
	if c.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			text, err := c.in.ReadString('\n')
			if err == io.EOF && text != "" {
				err = nil
			}
			ch <- readResult{strings.TrimRight(text, "\r\n"), err}
		}()
		c.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-c.pending:
		c.pending = nil
		if r.err != nil {
			return "", fmt.Errorf("read operator input: %w", r.err)
		}
		return r.text, nil
	}
}
