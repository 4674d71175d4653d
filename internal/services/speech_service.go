// internal/services/speech_service.go
package services

import (
	"errors"
	"strings"
	"sync"
)

var ErrSpeechUnsupported = errors.New("speech capability not available")

// RecognitionUpdate is one event from the speech-to-text engine. Interim
// results overlay the transcript; final results accumulate.
type RecognitionUpdate struct {
	Text  string
	Final bool
}

// RecognitionEngine abstracts the ambient speech-to-text capability.
// Engines deliver updates on the callback until Stop.
type RecognitionEngine interface {
	Start(locale string, onUpdate func(RecognitionUpdate)) error
	Stop()
}

// SynthesisVoice is one voice offered by the text-to-speech engine.
type SynthesisVoice struct {
	ID   string
	Lang string // BCP-47 tag, e.g. "es-ES"
}

// SynthesisEngine abstracts the ambient text-to-speech capability. onDone
// fires when the utterance finishes; Cancel aborts the in-flight one.
type SynthesisEngine interface {
	Voices() []SynthesisVoice
	Speak(text string, voice SynthesisVoice, locale string, onDone func()) error
	Cancel()
}

// SpeechService presents a uniform start/stop contract over the two speech
// capabilities. Either engine may be nil, which surfaces as the
// corresponding unsupported flag rather than an error state.
type SpeechService struct {
	recognition RecognitionEngine
	synthesis   SynthesisEngine

	mu        sync.Mutex
	listening bool
	finalText string
	interim   string
	speaking  bool
}

// NewSpeechService wires the service over the available engines.
func NewSpeechService(recognition RecognitionEngine, synthesis SynthesisEngine) *SpeechService {
	return &SpeechService{
		recognition: recognition,
		synthesis:   synthesis,
	}
}

// RecognitionSupported reports whether speech-to-text is available.
func (s *SpeechService) RecognitionSupported() bool {
	return s.recognition != nil
}

// SynthesisSupported reports whether text-to-speech is available.
func (s *SpeechService) SynthesisSupported() bool {
	return s.synthesis != nil
}

// StartListening begins a recognition session for the locale. Starting
// while already listening is a no-op.
func (s *SpeechService) StartListening(locale string) error {
	if s.recognition == nil {
		return ErrSpeechUnsupported
	}

	s.mu.Lock()
	if s.listening {
		s.mu.Unlock()
		return nil
	}
	s.listening = true
	s.finalText = ""
	s.interim = ""
	s.mu.Unlock()

	if err := s.recognition.Start(locale, s.handleUpdate); err != nil {
		s.mu.Lock()
		s.listening = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// handleUpdate folds an engine event into the transcript. Final text
// accumulates; interim text overlays without contaminating the finals.
func (s *SpeechService) handleUpdate(u RecognitionUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.listening {
		return
	}
	if u.Final {
		s.finalText += u.Text
		s.interim = ""
	} else {
		s.interim = u.Text
	}
}

// StopListening ends the session, keeping accumulated final text and
// discarding any interim overlay. Stopping while idle is a no-op.
func (s *SpeechService) StopListening() {
	s.mu.Lock()
	if !s.listening {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// Stop may synchronously flush a pending final result through
	// handleUpdate before returning.
	s.recognition.Stop()

	s.mu.Lock()
	s.listening = false
	s.interim = ""
	s.mu.Unlock()
}

// ResetTranscript clears the transcript without changing listening state.
func (s *SpeechService) ResetTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalText = ""
	s.interim = ""
}

// Transcript returns accumulated final text plus the current interim
// overlay.
func (s *SpeechService) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalText + s.interim
}

// IsListening reports whether a recognition session is active.
func (s *SpeechService) IsListening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}

// Speak starts an utterance in the given locale, cancelling any in-flight
// one first so at most one utterance is active.
func (s *SpeechService) Speak(text, locale string) error {
	if s.synthesis == nil {
		return ErrSpeechUnsupported
	}

	s.synthesis.Cancel()

	voice := s.selectVoice(locale)
	s.mu.Lock()
	s.speaking = true
	s.mu.Unlock()

	err := s.synthesis.Speak(text, voice, locale, func() {
		s.mu.Lock()
		s.speaking = false
		s.mu.Unlock()
	})
	if err != nil {
		s.mu.Lock()
		s.speaking = false
		s.mu.Unlock()
		return err
	}
	return nil
}

// StopSpeaking cancels the in-flight utterance immediately.
func (s *SpeechService) StopSpeaking() {
	if s.synthesis == nil {
		return
	}
	s.synthesis.Cancel()

	s.mu.Lock()
	s.speaking = false
	s.mu.Unlock()
}

// IsSpeaking reports whether an utterance is active.
func (s *SpeechService) IsSpeaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// selectVoice picks a voice whose language shares the locale's primary
// subtag, falling back to the first available voice.
func (s *SpeechService) selectVoice(locale string) SynthesisVoice {
	voices := s.synthesis.Voices()
	if len(voices) == 0 {
		return SynthesisVoice{}
	}

	prefix := locale
	if idx := strings.Index(locale, "-"); idx > 0 {
		prefix = locale[:idx]
	}
	for _, v := range voices {
		if strings.HasPrefix(v.Lang, prefix) {
			return v
		}
	}
	return voices[0]
}
