package constants

const (
	// General Settings
	SettingTimezone            = "timezone"
	SettingDefaultMealCategory = "default_meal_category"
	SettingWeekStart           = "week_start"

	// Default Settings Values
	DefaultTimezone            = "Local" // Use system local timezone by default
	DefaultMealCategory        = string(MealSnack)
	DefaultWeekStart           = WeekStartMonday
	DefaultServerAddr          = "127.0.0.1:8787"
	DefaultNutritionBaseURL    = "https://api.nal.usda.gov/fdc/v1"
	DefaultAIFunctionsBaseURL  = "http://127.0.0.1:54321/functions/v1"
	DefaultEstimateConcurrency = 4
)
