package web

import (
	"encoding/gob"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

// Flash is a one-shot status message shown on the next rendered page.
type Flash struct {
	Message  string
	Category string
}

func init() {
	gob.Register(Flash{})
}

// Flashes keeps pending flash messages in a signed session cookie.
type Flashes struct {
	store sessions.Store
	name  string
	log   *slog.Logger
}

// NewFlashes signs the session cookie called name with secret.
func NewFlashes(secret []byte, name string, secure bool, log *slog.Logger) *Flashes {
	store := sessions.NewCookieStore(secret)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode

	if log == nil {
		log = slog.Default()
	}
	return &Flashes{store: store, name: name, log: log}
}

func (f *Flashes) session(r *http.Request) *sessions.Session {
	session, err := f.store.Get(r, f.name)
	if err != nil {
		// A tampered or stale cookie yields a fresh session.
		f.log.Debug("discarding invalid session cookie", "error", err)
	}
	return session
}

// Add queues messages under category for the next rendered page.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, category string, messages ...string) {
	session := f.session(r)
	for _, m := range messages {
		session.AddFlash(Flash{Message: m, Category: category})
	}
	if err := session.Save(r, w); err != nil {
		f.log.Error("failed to save flash messages", "error", err)
	}
}

// Pop returns and clears the pending messages.
// It must be called before the response header is written.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	session := f.session(r)
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		f.log.Error("failed to clear flash messages", "error", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if fl, ok := v.(Flash); ok {
			flashes = append(flashes, fl)
		}
	}
	return flashes
}
