// Package entities holds the value types shared by the tentcards backend and client session
package entities

// Monster identifies a creature that can appear on a tent card. Key is the
// dnd5e-api index; custom, hand-authored entries carry an empty Key.
type Monster struct {
	Key    string `json:"key,omitempty"`
	Name   string `json:"name"`
	Custom bool   `json:"custom,omitempty"`
}

// WorkingSetEntry is one selected monster and how many printed copies it needs.
type WorkingSetEntry struct {
	Monster  Monster
	Quantity int
}

// GeneratedImage is the backend's answer to a generate or regenerate request.
type GeneratedImage struct {
	URL    string `json:"url"`
	Cached bool   `json:"cached"`
}

// SavedImage is the backend's answer to a persist request.
type SavedImage struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
}
