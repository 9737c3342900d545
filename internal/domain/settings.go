package domain

// AppSettings holds the user-facing application preferences.
type AppSettings struct {
	AlwaysAuthenticate bool `json:"alwaysAuthenticate"`
}

// SettingAlwaysAuthenticate is the storage key for AppSettings.AlwaysAuthenticate.
const SettingAlwaysAuthenticate = "appSettings.alwaysAuthenticate"
