package domain

// Language is the target language of the generated copy.
type Language string

// Supported languages.
const (
	LanguageEnglishUS Language = "English (US)"
	LanguageEnglishUK Language = "English (UK)"
	LanguageFrench    Language = "French"
	LanguageSpanish   Language = "Spanish"
	LanguageGerman    Language = "German"
)

// Tone is the voice the copy is written in.
type Tone string

// Supported tones.
const (
	TonePersuasive     Tone = "Persuasive"
	ToneDirectResponse Tone = "Direct Response"
	ToneLuxury         Tone = "Luxury & Elite"
	ToneEnergetic      Tone = "Energetic"
	ToneScientific     Tone = "Scientific"
)

// Defaults used when a caller leaves the language or tone unset.
const (
	DefaultLanguage = LanguageEnglishUS
	DefaultTone     = TonePersuasive
)

var (
	languages = []Language{
		LanguageEnglishUS,
		LanguageEnglishUK,
		LanguageFrench,
		LanguageSpanish,
		LanguageGerman,
	}

	tones = []Tone{
		TonePersuasive,
		ToneDirectResponse,
		ToneLuxury,
		ToneEnergetic,
		ToneScientific,
	}
)

// Languages returns the supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Tones returns the supported tones in display order.
func Tones() []Tone {
	out := make([]Tone, len(tones))
	copy(out, tones)
	return out
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	for _, candidate := range languages {
		if l == candidate {
			return true
		}
	}
	return false
}

// IsValid reports whether t is one of the supported tones.
func (t Tone) IsValid() bool {
	for _, candidate := range tones {
		if t == candidate {
			return true
		}
	}
	return false
}
