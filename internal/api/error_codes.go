// internal/api/error_codes.go
package api

// API error code constants.
const (
	// Generic errors
	ErrorBadRequest    = "BAD_REQUEST"
	ErrorNotFound      = "NOT_FOUND"
	ErrorInternalError = "INTERNAL_ERROR"
	ErrorForbidden     = "FORBIDDEN"

	// Scenario errors
	ErrorScenarioNotFound     = "SCENARIO_NOT_FOUND"
	ErrorScenarioReadOnly     = "SCENARIO_READ_ONLY"
	ErrorScenarioInvalid      = "SCENARIO_INVALID"
	ErrorScenarioSaveFailed   = "SCENARIO_SAVE_FAILED"
	ErrorScenarioDeleteFailed = "SCENARIO_DELETE_FAILED"

	// Vocabulary errors
	ErrorVocabularyNotFound   = "VOCABULARY_NOT_FOUND"
	ErrorVocabularyInvalid    = "VOCABULARY_INVALID"
	ErrorVocabularySaveFailed = "VOCABULARY_SAVE_FAILED"

	// Conversation errors
	ErrorLanguageUnknown  = "LANGUAGE_UNKNOWN"
	ErrorMessageEmpty     = "MESSAGE_EMPTY"
	ErrorProviderFailed   = "PROVIDER_FAILED"
	ErrorProviderNotReady = "PROVIDER_NOT_READY"
)
