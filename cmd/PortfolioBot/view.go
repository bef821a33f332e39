package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/BTreeMap/PortfolioBot/internal/models"
)

// terminalView renders session snapshots as appended chat lines. It only
// prints messages it has not printed before, so repeated snapshots are cheap.
type terminalView struct {
	mu        sync.Mutex
	out       io.Writer
	botName   string
	rendered  int
	composing bool

	// idle receives a signal whenever a pending reply finishes.
	idle chan struct{}
}

func newTerminalView(out io.Writer, botName string) *terminalView {
	return &terminalView{
		out:     out,
		botName: botName,
		idle:    make(chan struct{}, 1),
	}
}

// OnUpdate implements session.Observer.
func (v *terminalView) OnUpdate(snapshot models.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, msg := range snapshot.Transcript[min(v.rendered, len(snapshot.Transcript)):] {
		v.renderMessage(msg)
	}
	v.rendered = len(snapshot.Transcript)

	wasComposing := v.composing
	v.composing = snapshot.IsComposing
	if snapshot.IsComposing && !wasComposing {
		fmt.Fprintf(v.out, "%s is typing...\n", v.botName)
	}
	if !snapshot.IsComposing && wasComposing {
		select {
		case v.idle <- struct{}{}:
		default:
		}
	}
}

// renderInitial prints messages that exist before the view subscribed, such as the welcome text.
func (v *terminalView) renderInitial(transcript []models.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, msg := range transcript[min(v.rendered, len(transcript)):] {
		v.renderMessage(msg)
	}
	v.rendered = len(transcript)
}

func (v *terminalView) renderMessage(msg models.Message) {
	switch msg.Sender {
	case models.SenderBot:
		fmt.Fprintf(v.out, "%s: %s\n", v.botName, indentContinuation(msg.Text))
	case models.SenderUser:
		fmt.Fprintf(v.out, "you: %s\n", msg.Text)
	}
}

func (v *terminalView) isComposing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.composing
}

func (v *terminalView) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *terminalView) writer() io.Writer {
	return lockedWriter{v}
}

// lockedWriter lets other packages write to the view's output without
// interleaving with a reply rendered from the timer goroutine.
type lockedWriter struct {
	v *terminalView
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.v.mu.Lock()
	defer w.v.mu.Unlock()
	return w.v.out.Write(p)
}

func indentContinuation(text string) string {
	return strings.ReplaceAll(text, "\n", "\n    ")
}
