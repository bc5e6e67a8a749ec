package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrPastDate      = errors.New("delivery date is in the past")
	ErrUnknownWindow = errors.New("unknown delivery window")
)

const slotCollapseDelay = 400 * time.Millisecond

// Windows returns the fixed two-hour delivery windows between 09:00 and 21:00.
func Windows() []string {
	out := make([]string, 0, 6)
	for h := 9; h < 21; h += 2 {
		out = append(out, fmt.Sprintf("%02d:00-%02d:00", h, h+2))
	}
	return out
}

// SlotPicker is the independent date/time widget. It holds a day-granularity
// date and one fixed window, composes both into a single delivery-slot
// string, and reports it through the onChosen callback once both parts are
// set. It then collapses shortly after. Nothing polls it.
type SlotPicker struct {
	now           func() time.Time
	collapseDelay time.Duration
	onChosen      func(slot string)

	mu        sync.Mutex
	date      time.Time
	window    string
	collapsed bool
	timer     *time.Timer
}

func NewSlotPicker(onChosen func(slot string)) *SlotPicker {
	return &SlotPicker{
		now:           time.Now,
		collapseDelay: slotCollapseDelay,
		onChosen:      onChosen,
	}
}

// SetDate picks the delivery day. Past dates are rejected; today is allowed.
func (p *SlotPicker) SetDate(d time.Time) error {
	day := truncateToDay(d)
	if day.Before(truncateToDay(p.now())) {
		return ErrPastDate
	}
	p.mu.Lock()
	p.date = day
	p.collapsed = false
	p.mu.Unlock()
	p.maybeChoose()
	return nil
}

func (p *SlotPicker) SetWindow(w string) error {
	for _, known := range Windows() {
		if known == w {
			p.mu.Lock()
			p.window = w
			p.collapsed = false
			p.mu.Unlock()
			p.maybeChoose()
			return nil
		}
	}
	return ErrUnknownWindow
}

// Collapsed may be read while the collapse timer fires.
func (p *SlotPicker) Collapsed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collapsed
}

// Slot returns the composed delivery-slot string, empty until both parts set.
func (p *SlotPicker) Slot() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.slot()
}

func (p *SlotPicker) slot() string {
	if p.date.IsZero() || p.window == "" {
		return ""
	}
	return fmt.Sprintf("%s, %s", p.date.Format("02.01.2006"), p.window)
}

func (p *SlotPicker) maybeChoose() {
	p.mu.Lock()
	slot := p.slot()
	if slot == "" {
		p.mu.Unlock()
		return
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.collapseDelay, func() {
		p.mu.Lock()
		p.collapsed = true
		p.mu.Unlock()
	})
	p.mu.Unlock()

	// callback runs unlocked so it may call back into the picker
	if p.onChosen != nil {
		p.onChosen(slot)
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
