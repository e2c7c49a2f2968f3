package eligibility

import (
	"fmt"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/models"
)

// State classifies a meal's customization window
type State string

const (
	StateOpen       State = "OPEN"
	StateCustomized State = "CUSTOMIZED"
	StateClosed     State = "CLOSED"
)

// User-facing messages, one per state. The dashboard, menu and customization
// screens all render these verbatim so they live next to the state type.
const (
	MsgOpen       = "Customizable"
	MsgCustomized = "Already customized"
	MsgClosed     = "Customization closed"
)

// DefaultCutoffWindow is the fallback pre-delivery buffer when no window is
// configured. The effective value comes from config.CutoffWindow().
const DefaultCutoffWindow = 2 * time.Hour

// Result is the outcome of evaluating one meal at one instant
type Result struct {
	CanCustomize bool   `json:"can_customize"`
	State        State  `json:"state"`
	Message      string `json:"message"`
	// Remaining is the time left until cutoff, only set while OPEN
	Remaining *time.Duration `json:"-"`
	// RemainingLabel is Remaining formatted as "1h 45m", empty unless OPEN
	RemainingLabel string `json:"remaining,omitempty"`
}

// Evaluate decides whether a meal can still be customized at instant now.
// It is pure: the clock is always injected, never read here. Delivery status
// is deliberately ignored — a meal past its delivery time closes naturally
// because now is beyond the cutoff.
//
// The boundary is exclusive on the open side: at exactly deliveryTime - window
// the window is already CLOSED.
func Evaluate(meal *models.Meal, now time.Time, window time.Duration) Result {
	if meal.IsCustomized {
		return Result{
			CanCustomize: false,
			State:        StateCustomized,
			Message:      MsgCustomized,
		}
	}

	cutoff := meal.DeliveryTime.Add(-window)
	if now.Before(cutoff) {
		remaining := cutoff.Sub(now)
		return Result{
			CanCustomize:   true,
			State:          StateOpen,
			Message:        MsgOpen,
			Remaining:      &remaining,
			RemainingLabel: FormatRemaining(remaining),
		}
	}

	return Result{
		CanCustomize: false,
		State:        StateClosed,
		Message:      MsgClosed,
	}
}

// FormatRemaining renders a countdown as whole hours and minutes, e.g.
// "1h 45m". Durations under a minute collapse to "0h 0m"; negative input is
// clamped so the label never shows a negative countdown.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d%time.Hour) / int(time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
