package api

import (
	"errors"
	"fmt"
)

// Kind selects which synthesis endpoint a Submission targets.
type Kind string

const (
	KindCustomVoice      Kind = "custom-voice"
	KindVoiceDesign      Kind = "voice-design"
	KindVoiceClone       Kind = "voice-clone"
	KindVoiceCloneTimbre Kind = "voice-clone-timbre"
	KindVoiceDesignClone Kind = "voice-design-clone"
)

// DefaultLanguage is sent when the caller does not pick a language.
const DefaultLanguage = "Auto"

// Submission describes one synthesis job to create. Exactly one Kind is
// active; which fields are required depends on it. Validation happens in
// Client.Submit before any network I/O.
type Submission struct {
	Kind Kind

	Text     string
	Speaker  string // preset speaker (custom-voice) or timbre name (voice-clone-timbre)
	Language string
	Instruct string

	// voice-clone
	AudioPath   string // local reference audio file
	RefText     string // transcript of the reference audio
	XVectorOnly bool   // speaker-embedding-only conditioning

	// voice-design-clone
	DesignText     string
	DesignInstruct string
	CloneTexts     []string
	DesignLanguage string
	CloneLanguage  string
}

// CustomVoice builds a preset-speaker synthesis submission.
func CustomVoice(text, speaker, language, instruct string) Submission {
	return Submission{
		Kind:     KindCustomVoice,
		Text:     text,
		Speaker:  speaker,
		Language: orAuto(language),
		Instruct: instruct,
	}
}

// VoiceDesign builds a submission that synthesizes speech for a voice
// described in natural language.
func VoiceDesign(text, instruct, language string) Submission {
	return Submission{
		Kind:     KindVoiceDesign,
		Text:     text,
		Instruct: instruct,
		Language: orAuto(language),
	}
}

// VoiceClone builds a submission that clones the voice found in a local
// reference audio file.
func VoiceClone(text, audioPath, language, refText string, xVectorOnly bool, instruct string) Submission {
	return Submission{
		Kind:        KindVoiceClone,
		Text:        text,
		AudioPath:   audioPath,
		Language:    orAuto(language),
		RefText:     refText,
		XVectorOnly: xVectorOnly,
		Instruct:    instruct,
	}
}

// VoiceCloneTimbre builds a submission that clones a server-side preset
// timbre, with no audio upload.
func VoiceCloneTimbre(text, timbre, language, instruct string) Submission {
	return Submission{
		Kind:     KindVoiceCloneTimbre,
		Text:     text,
		Speaker:  timbre,
		Language: orAuto(language),
		Instruct: instruct,
	}
}

// VoiceDesignClone builds a submission that designs a voice and then clones
// it onto multiple texts in one job.
func VoiceDesignClone(designText, designInstruct string, cloneTexts []string, designLanguage, cloneLanguage string) Submission {
	return Submission{
		Kind:           KindVoiceDesignClone,
		DesignText:     designText,
		DesignInstruct: designInstruct,
		CloneTexts:     cloneTexts,
		DesignLanguage: orAuto(designLanguage),
		CloneLanguage:  orAuto(cloneLanguage),
	}
}

// Validate checks the required fields for the submission's kind. It never
// touches the network or the filesystem.
func (s Submission) Validate() error {
	switch s.Kind {
	case KindCustomVoice:
		if s.Text == "" {
			return errors.New("custom-voice: text is required")
		}
		if s.Speaker == "" {
			return errors.New("custom-voice: speaker is required")
		}
	case KindVoiceDesign:
		if s.Text == "" {
			return errors.New("voice-design: text is required")
		}
		if s.Instruct == "" {
			return errors.New("voice-design: instruct is required")
		}
	case KindVoiceClone:
		if s.Text == "" {
			return errors.New("voice-clone: text is required")
		}
		if s.AudioPath == "" {
			return errors.New("voice-clone: reference audio path is required")
		}
	case KindVoiceCloneTimbre:
		if s.Text == "" {
			return errors.New("voice-clone-timbre: text is required")
		}
		if s.Speaker == "" {
			return errors.New("voice-clone-timbre: timbre is required")
		}
	case KindVoiceDesignClone:
		if s.DesignText == "" {
			return errors.New("voice-design-clone: design_text is required")
		}
		if s.DesignInstruct == "" {
			return errors.New("voice-design-clone: design_instruct is required")
		}
		if len(s.CloneTexts) == 0 {
			return errors.New("voice-design-clone: at least one clone text is required")
		}
	default:
		return fmt.Errorf("unknown submission kind %q", s.Kind)
	}
	return nil
}

func orAuto(language string) string {
	if language == "" {
		return DefaultLanguage
	}
	return language
}

// Request payload shapes, one per endpoint.

type customVoiceRequest struct {
	Text     string `json:"text"`
	Speaker  string `json:"speaker"`
	Language string `json:"language"`
	Mode     string `json:"mode,omitempty"` // "clone" for timbre-based cloning
	Instruct string `json:"instruct,omitempty"`
}

type voiceDesignRequest struct {
	Text     string `json:"text"`
	Instruct string `json:"instruct"`
	Language string `json:"language"`
}

type voiceDesignCloneRequest struct {
	DesignText     string   `json:"design_text"`
	DesignInstruct string   `json:"design_instruct"`
	CloneTexts     []string `json:"clone_texts"`
	DesignLanguage string   `json:"design_language"`
	CloneLanguage  string   `json:"clone_language"`
}
