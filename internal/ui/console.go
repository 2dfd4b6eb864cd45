package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ytget/yt1080/internal/model"
)

// Console prints status lines and reads prompt answers
type Console struct {
	in      *bufio.Reader
	out     io.Writer
	title   *color.Color
	success *color.Color
	notice  *color.Color
	failure *color.Color
}

// NewConsole creates a console reading from in and writing to out
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:      bufio.NewReader(in),
		out:     out,
		title:   color.New(color.Bold),
		success: color.New(color.FgGreen),
		notice:  color.New(color.FgYellow),
		failure: color.New(color.FgRed),
	}
}

// Out returns the writer used for console output
func (c *Console) Out() io.Writer {
	return c.out
}

// Prompt prints label and returns the entered line without its newline.
// End of input after a partial line is not an error.
func (c *Console) Prompt(label string) (string, error) {
	_, _ = fmt.Fprint(c.out, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Fetching announces the metadata query
func (c *Console) Fetching() {
	_, _ = fmt.Fprintln(c.out, MsgFetching)
}

// VideoInfo prints the title and channel
func (c *Console) VideoInfo(meta *model.VideoMetadata) {
	_, _ = c.title.Fprintf(c.out, MsgDownloadingFormat, meta.Title)
	_, _ = fmt.Fprintf(c.out, MsgChannelFormat, meta.ChannelOrUnknown())
}

// Availability reports whether the preferred height is offered. It is
// informational only; the download goes ahead either way.
func (c *Console) Availability(pref model.FormatPreference, meta *model.VideoMetadata) bool {
	if meta.HasHeight(pref.Height) {
		_, _ = c.success.Fprintf(c.out, MsgAvailableFormat, pref.Label())
		return true
	}
	_, _ = c.notice.Fprintf(c.out, MsgNotAvailableFormat, pref.Label(), FormatHeights(meta.AvailableHeights()), HeightUnit)
	return false
}

// Completed prints the success message and the save location
func (c *Console) Completed(location string) {
	_, _ = c.success.Fprintln(c.out, MsgCompleted)
	_, _ = fmt.Fprintf(c.out, MsgSavedToFormat, location)
}

// Failed prints the error message followed by the troubleshooting tips
func (c *Console) Failed(err error) {
	_, _ = c.failure.Fprintf(c.out, MsgErrorFormat, err.Error())
	_, _ = fmt.Fprintln(c.out, MsgTipsHeader)
	for i, tip := range TroubleshootingTips {
		_, _ = fmt.Fprintf(c.out, TipIndexFormat, i+1, tip)
	}
}

// FormatHeights renders heights as a bracketed list, e.g. "[360, 720]"
func FormatHeights(heights []int) string {
	parts := make([]string, len(heights))
	for i, h := range heights {
		parts[i] = strconv.Itoa(h)
	}
	return ListOpen + strings.Join(parts, ListSeparator) + ListClose
}
