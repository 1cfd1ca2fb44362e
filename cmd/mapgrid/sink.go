package main

import (
	"fmt"

	"github.com/milk9111/mapgrid/export"
	"golang.design/x/clipboard"
)

type clipboardSink struct{}

// newClipboardSink returns nil when the platform has no clipboard, e.g. a
// headless Linux session without X11.
func newClipboardSink() export.Sink {
	if err := clipboard.Init(); err != nil {
		return nil
	}
	return clipboardSink{}
}

func (clipboardSink) Deliver(name string, data []byte) error {
	if data == nil {
		return fmt.Errorf("clipboard: nothing to copy for %s", name)
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

// buildSink combines the available delivery targets. It returns nil when none
// are configured, which hides the export button.
func buildSink(outDir string, useClipboard bool) export.Sink {
	var sinks export.MultiSink
	if outDir != "" {
		sinks = append(sinks, export.FileSink{Dir: outDir})
	}
	if useClipboard {
		if s := newClipboardSink(); s != nil {
			sinks = append(sinks, s)
		}
	}
	switch len(sinks) {
	case 0:
		return nil
	case 1:
		return sinks[0]
	}
	return sinks
}
