package model

// System setting names.
const (
	// SettingSecretSession holds the signing secret for access tokens.
	SettingSecretSession = "secret-session"
)

type SystemSetting struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}
