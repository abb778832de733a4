package sched

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// CSVSink writes one row per event.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink creates path and writes the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)

	// write header
	if err := w.Write([]string{"timestamp", "frame", "event", "task_id", "type"}); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	return &CSVSink{file: f, writer: w}, nil
}

func (c *CSVSink) Record(ev StatusEvent) {
	c.writer.Write([]string{
		ev.Time.Format(time.RFC3339Nano),
		strconv.FormatInt(ev.Frame, 10),
		ev.Kind.String(),
		strconv.FormatUint(uint64(ev.TaskID), 10),
		ev.Type.String(),
	})
	c.writer.Flush()
}

// Close flushes and closes the underlying file.
func (c *CSVSink) Close() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.file.Close()
		return err
	}
	return c.file.Close()
}

// TraceSink prints a human readable line per event.
type TraceSink struct {
	W io.Writer
}

func (p TraceSink) Record(ev StatusEvent) {
	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := (width - len(str)) / 2
		if spaces < 0 {
			spaces = 0
		}
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", max(width-(spaces+len(str)), 0))
	}

	fmt.Fprintf(p.W, "%s = Frame: %07d [%s] => Task: %04d (%s)\n",
		ev.Time.Format("Jan 02 15:04:05.000"),
		ev.Frame,
		center(ev.Kind.String(), 14),
		ev.TaskID,
		ev.Type,
	)
}

// Tee fans events out to several sinks, skipping nil ones.
type Tee []EventSink

func (t Tee) Record(ev StatusEvent) {
	for _, s := range t {
		if s != nil {
			s.Record(ev)
		}
	}
}
