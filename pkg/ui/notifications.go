package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// NotificationSender interface for platform-specific notification implementations
type NotificationSender interface {
	Send(title, message string) error
}

// LinuxNotificationSender sends notifications on Linux using notify-send
type LinuxNotificationSender struct{}

func (l *LinuxNotificationSender) Send(title, message string) error {
	return exec.Command("notify-send", title, message).Run()
}

// MacOSNotificationSender sends notifications on macOS using osascript
type MacOSNotificationSender struct{}

func (m *MacOSNotificationSender) Send(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	return exec.Command("osascript", "-e", script).Run()
}

// Notifier sends a desktop notification when a run ends
type Notifier struct {
	sender NotificationSender
}

// NewNotifier creates a Notifier for the current platform. On platforms
// without a supported sender notifications only print to the console.
func NewNotifier() *Notifier {
	var sender NotificationSender

	switch runtime.GOOS {
	case "linux":
		sender = &LinuxNotificationSender{}
	case "darwin":
		sender = &MacOSNotificationSender{}
	}

	return &Notifier{sender: sender}
}

// NewNotifierWithSender creates a Notifier that uses sender
func NewNotifierWithSender(sender NotificationSender) *Notifier {
	return &Notifier{sender: sender}
}

// SendSuccess announces a finished run
func (n *Notifier) SendSuccess(title, message string) error {
	fmt.Fprintf(Output, "\n%s: %s\n", Green(title), Green(message))
	return n.send(title, message)
}

// SendError announces a failed run
func (n *Notifier) SendError(title, message string) error {
	fmt.Fprintf(Output, "\n%s: %s\n", Red(title), Red(message))
	return n.send(title, message)
}

func (n *Notifier) send(title, message string) error {
	if n.sender == nil {
		return nil
	}
	return n.sender.Send(title, message)
}
