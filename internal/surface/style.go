package surface

// VoiceStyle overrides word timers for one voice.
type VoiceStyle struct {
	WordTimers string `yaml:"word_timers" toml:"word_timers"`
}

// Stylesheet carries the timer declarations that the styling layer attaches
// to cards and words.
type Stylesheet struct {
	CardTimers string                `yaml:"card_timers" toml:"card_timers"`
	WordTimers string                `yaml:"word_timers" toml:"word_timers"`
	Voices     map[string]VoiceStyle `yaml:"voices,omitempty" toml:"voices,omitempty"`
}

// DefaultStylesheet fades cards in and out and sweeps each word.
func DefaultStylesheet() Stylesheet {
	return Stylesheet{
		CardTimers: "--card-opacity start -0.5 end 0.5 easeOut easeIn",
		WordTimers: "--word-progress start 0 end 0 linear, --word-pulse start 0 end 0 linear none oscillate4",
	}
}

// TimersFor returns the declarations for an element.
func (s Stylesheet) TimersFor(id ElementID) string {
	if id.Kind == CardKind {
		return s.CardTimers
	}
	if vs, ok := s.Voices[id.Voice]; ok && vs.WordTimers != "" {
		return vs.WordTimers
	}
	return s.WordTimers
}
