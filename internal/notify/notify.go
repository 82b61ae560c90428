// Package notify is the small advisory surface the core subsystems
// talk to when something user-visible happens outside the normal
// return path: a forced logout, a capacity warning.  The terminal
// client logs them; a graphical shell would show a snack bar.
package notify

import "log"

// Notifier receives user-visible advisories.
type Notifier interface {
    Notify(message string)
}

// Logger writes advisories through the standard logger.
type Logger struct{}

func (Logger) Notify(message string) {
    log.Printf("notice: %s", message)
}
