package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
)

// WhatsAppComposer builds wa.me deep links carrying a prefilled ticket
// summary. Nothing is sent from here: the link opens the user's own
// WhatsApp client and sending stays a manual step.
type WhatsAppComposer struct {
	now func() time.Time
}

// NewWhatsAppComposer creates a composer.
func NewWhatsAppComposer() *WhatsAppComposer {
	return &WhatsAppComposer{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock overrides the composer clock. Test hook.
func (c *WhatsAppComposer) WithClock(now func() time.Time) *WhatsAppComposer {
	c.now = now
	return c
}

// ComposeTicketLink builds the deep link for sharing one ticket to a phone
// number. An empty phone yields a recipient-less link; WhatsApp then asks
// the user to pick a chat.
func (c *WhatsAppComposer) ComposeTicketLink(t *domain.Ticket, phone string) string {
	message := c.ComposeTicketMessage(t)
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return "https://wa.me/?text=" + url.QueryEscape(message)
	}
	return "https://wa.me/" + normalized + "?text=" + url.QueryEscape(message)
}

// ComposeTicketMessage renders the plain-text summary shared over chat.
func (c *WhatsAppComposer) ComposeTicketMessage(t *domain.Ticket) string {
	snap := t.TTRAt(c.now())

	var b strings.Builder
	fmt.Fprintf(&b, "*Update Gangguan %s*\n", t.IncidentNumber)
	fmt.Fprintf(&b, "Site: %s", t.SiteCode)
	if t.SiteName != "" {
		fmt.Fprintf(&b, " (%s)", t.SiteName)
	}
	b.WriteString("\n")
	if t.Location != "" {
		fmt.Fprintf(&b, "Lokasi: %s\n", t.Location)
	}
	fmt.Fprintf(&b, "Status: %s\n", t.DisplayStatus())
	fmt.Fprintf(&b, "Jam Open: %s\n", t.JamOpen.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Max Jam Close: %s\n", t.MaxJamClose.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Sisa TTR: %s\n", domain.FormatHours(snap.RemainingHours))
	if len(t.Technicians) > 0 {
		fmt.Fprintf(&b, "Teknisi: %s\n", strings.Join(t.Technicians, ", "))
	}
	if t.Cause != "" {
		fmt.Fprintf(&b, "Penyebab: %s\n", t.Cause)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NormalizePhone converts an Indonesian phone number to the digits-only
// international form wa.me expects: a leading 0 becomes 62, a leading +
// is dropped, separators are stripped. Anything without digits maps to "".
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	if strings.HasPrefix(d, "0") {
		return "62" + d[1:]
	}
	return d
}
