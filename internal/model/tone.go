package model

// Tone is the voice a text artifact is required to match.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
)

// Valid reports whether the tone is one the scorer recognizes.
func (t Tone) Valid() bool {
	return t == ToneProfessional || t == ToneFriendly || t == ToneCasual
}
