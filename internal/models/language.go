// internal/models/language.go
package models

// Language describes a selectable target language.
type Language struct {
	Code   string `json:"code" yaml:"code"`
	Name   string `json:"name" yaml:"name"`
	Flag   string `json:"flag" yaml:"flag"`
	Locale string `json:"locale" yaml:"locale"` // BCP-47 tag used for speech I/O, e.g. "es-ES"
}
