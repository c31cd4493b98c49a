package domain

// Default configuration values
const (
	DefaultAdvanceBookingDays      = 0 // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MaxNotesLength         = 500
	MaxAttendeeNameLength  = 200
	ConfirmationCodePrefix = "SB-"
	ConfirmationCodeLength = 6
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DatetimeFormat = "2006-01-02T15:04" // YYYY-MM-DDTHH:MM
)
