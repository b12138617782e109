package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultBannerTTL is how long a success banner stays up.
const DefaultBannerTTL = 4 * time.Second

// BannerKind selects the banner style and expiry.
type BannerKind int

const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// BannerExpiredMsg clears the success banner it was scheduled for.
type BannerExpiredMsg struct {
	Seq int
}

// Banner is a one-line status message. Success banners expire on their own;
// error banners stay until dismissed.
type Banner struct {
	TTL  time.Duration
	Kind BannerKind
	Text string
	seq  int
}

// NewBanner returns an empty banner with the default TTL.
func NewBanner() Banner {
	return Banner{TTL: DefaultBannerTTL}
}

// Success shows text and returns the command that expires it.
func (b *Banner) Success(text string) tea.Cmd {
	b.seq++
	b.Kind = BannerSuccess
	b.Text = text
	seq := b.seq
	ttl := b.TTL
	if ttl <= 0 {
		ttl = DefaultBannerTTL
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return BannerExpiredMsg{Seq: seq}
	})
}

// Error shows text until Dismiss is called.
func (b *Banner) Error(text string) {
	b.seq++
	b.Kind = BannerError
	b.Text = text
}

// Dismiss hides the banner.
func (b *Banner) Dismiss() {
	b.seq++
	b.Kind = BannerNone
	b.Text = ""
}

// Expire handles a BannerExpiredMsg; stale messages are ignored.
func (b *Banner) Expire(msg BannerExpiredMsg) {
	if msg.Seq == b.seq && b.Kind == BannerSuccess {
		b.Kind = BannerNone
		b.Text = ""
	}
}

// Visible reports whether there is anything to show.
func (b Banner) Visible() bool {
	return b.Kind != BannerNone && b.Text != ""
}

// IsError reports whether an error banner is showing.
func (b Banner) IsError() bool {
	return b.Kind == BannerError && b.Text != ""
}

// View renders the banner wrapped to width.
func (b Banner) View(width int) string {
	if !b.Visible() {
		return ""
	}
	text := Wrap(b.Text, width)
	if b.Kind == BannerError {
		return ErrorStyle.Render(text + "  (esc: tutup)")
	}
	return SuccessStyle.Render(text)
}
