package constants

import "time"

// RecurrenceType represents the rule family that decides which days a habit is due
type RecurrenceType string

// ProgressState is the derived tri-state of a habit on a given day
type ProgressState string

// MealCategory represents one of the built-in meal categories
type MealCategory string

// Provenance identifies which resolution tier produced a nutrient estimate
type Provenance string

const (
	AppName            = "matic"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/matic"
	DefaultDBPath      = "~/.config/matic/matic.db"
	DefaultConfigFile  = "~/.config/matic/config.yaml"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// YearDayFormat is the month-day form of a yearly date (MM-DD)
	YearDayFormat = "01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "matic-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "matic-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "ai.matic.tray"

	// Recurrence constants
	RecurrenceDaily             RecurrenceType = "daily"
	RecurrenceSpecificWeekdays  RecurrenceType = "specific_weekdays"
	RecurrenceSpecificMonthdays RecurrenceType = "specific_monthdays"
	RecurrenceSpecificYeardays  RecurrenceType = "specific_yeardays"
	RecurrenceRepeat            RecurrenceType = "repeat"
	RecurrenceLegacyWeekly      RecurrenceType = "weekly"

	// LastDayOfMonth is the month-day sentinel for "the last day of the month"
	LastDayOfMonth = 32

	// Legacy frequency column values
	LegacyFrequencyDaily        = "daily"
	LegacyFrequencyWeekly       = "weekly"
	LegacyFrequencySpecificDays = "specific_days"
	LegacyFrequencyMonthly      = "monthly"
	LegacyFrequencyCustom       = "custom"

	// Progress states
	ProgressNone      ProgressState = "none"
	ProgressCompleted ProgressState = "completed"
	ProgressPartial   ProgressState = "partial"

	// Meal categories
	MealBreakfast MealCategory = "breakfast"
	MealLunch     MealCategory = "lunch"
	MealDinner    MealCategory = "dinner"
	MealSnack     MealCategory = "snack"

	// ManualFoodPrefix marks food references entered by hand
	ManualFoodPrefix = "manual_"

	// AI retry constants
	OverloadRetryDelay = 5 * time.Second
	OverloadMarker     = "overloaded"

	// Week start settings
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"
)

// Weekdays lists the lowercase English weekday tokens in time.Weekday order.
var Weekdays = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
