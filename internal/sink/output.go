// Package sink holds the "write a line of text somewhere" capability and its
// console, log and fan-out implementations.
package sink

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ErrWriteFailed wraps any error returned by the underlying channel.
var ErrWriteFailed = errors.New("sink: write failed")

// Output writes one line of content.
type Output interface {
	Write(content string) error
}

// LineTerminator is appended by Console after every write.
const LineTerminator = "\n"

// Console writes content followed by LineTerminator to w (os.Stdout in the CLI).
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Write(content string) error {
	if _, err := io.WriteString(c.w, content+LineTerminator); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Log emits content as an info event.
type Log struct {
	logger zerolog.Logger
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Write(content string) error {
	l.logger.Info().Msg(content)
	return nil
}

// Multi writes to every output in order, even after a failure.
type Multi []Output

func (m Multi) Write(content string) error {
	var errs []error
	for _, out := range m {
		if err := out.Write(content); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
