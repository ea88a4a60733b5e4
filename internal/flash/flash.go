// Package flash carries one-shot status messages across the POST/redirect/GET
// cycle of the HTML views.
package flash

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CookieName is the browser cookie holding the pending flash id.
const CookieName = "spp_flash"

// Kind selects the banner style.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Message is a single flash banner.
type Message struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// ErrNotFound is returned when no message is pending for an id.
var ErrNotFound = errors.New("flash message not found")

// Store persists pending messages until they are read once.
type Store interface {
	Put(ctx context.Context, id string, msg Message, ttl time.Duration) error
	// Pop returns and removes the message, or ErrNotFound.
	Pop(ctx context.Context, id string) (Message, error)
}

// Manager binds a Store to browser cookies.
type Manager struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

// NewManager creates a new Manager.
func NewManager(store Store, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "flash").Logger(),
	}
}

// Success queues a success banner for the next page the browser loads.
func (m *Manager) Success(c *gin.Context, text string) {
	m.set(c, Message{Kind: KindSuccess, Text: text})
}

// Error queues an error banner for the next page the browser loads.
func (m *Manager) Error(c *gin.Context, text string) {
	m.set(c, Message{Kind: KindError, Text: text})
}

func (m *Manager) set(c *gin.Context, msg Message) {
	id := uuid.New().String()
	if err := m.store.Put(c.Request.Context(), id, msg, m.ttl); err != nil {
		m.log.Warn().Err(err).Msg("Failed to store flash message")
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, id, int(m.ttl.Seconds()), "/", "", false, true)
}

// Take returns the pending message for this browser, if any, and clears it.
func (m *Manager) Take(c *gin.Context) *Message {
	id, err := c.Cookie(CookieName)
	if err != nil || id == "" {
		return nil
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)

	msg, err := m.store.Pop(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.log.Warn().Err(err).Msg("Failed to read flash message")
		}
		return nil
	}
	return &msg
}
