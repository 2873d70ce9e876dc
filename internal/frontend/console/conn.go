// Package console implements the line-oriented terminal front end: menus,
// prompts and battle narration on top of a game session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Conn is a line-oriented terminal connection.
type Conn struct {
	r *bufio.Reader
	w io.Writer
}

// NewConn wraps an input and output stream.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{r: bufio.NewReader(r), w: w}
}

// ReadLine reads one line of input with surrounding whitespace removed.
//
// Postcondition: returns io.EOF only when no more input is available.
func (c *Conn) ReadLine() (string, error) {
	line, err := c.r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// WriteLine writes text followed by a newline.
func (c *Conn) WriteLine(text string) error {
	_, err := io.WriteString(c.w, text+"\n")
	return err
}

// Writef writes a formatted line.
func (c *Conn) Writef(format string, args ...any) error {
	return c.WriteLine(fmt.Sprintf(format, args...))
}

// WritePrompt writes prompt without a trailing newline.
func (c *Conn) WritePrompt(prompt string) error {
	_, err := io.WriteString(c.w, prompt)
	return err
}

// Ask writes prompt and reads the answer.
func (c *Conn) Ask(prompt string) (string, error) {
	if err := c.WritePrompt(prompt); err != nil {
		return "", err
	}
	return c.ReadLine()
}

// AskInt asks for an integer. Blank input yields def; ok is false when the
// answer is not a number.
func (c *Conn) AskInt(prompt string, def int) (n int, ok bool, err error) {
	answer, err := c.Ask(prompt)
	if err != nil {
		return 0, false, err
	}
	if answer == "" {
		return def, true, nil
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil {
		return 0, false, nil
	}
	return n, true, nil
}
