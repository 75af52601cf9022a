package models

// Settings holds user preferences that travel with the persisted document.
type Settings struct {
	ShowCompleted     bool            `json:"showCompleted"`
	AnimationsEnabled bool            `json:"animationsEnabled"`
	Active            ActiveSelection `json:"activeCollectionIds"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		ShowCompleted:     false,
		AnimationsEnabled: true,
		Active:            AllActive(),
	}
}
