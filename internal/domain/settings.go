package domain

// Voice holds text-to-speech parameters. They are stored for the client and
// not interpreted by the server.
type Voice struct {
	Lang  string  `json:"lang"  validate:"required,max=35"`
	Rate  float64 `json:"rate"  validate:"gte=0.1,lte=10"`
	Pitch float64 `json:"pitch" validate:"gte=0,lte=2"`
}

// Settings are the learner's chosen defaults. Level and Category act as the
// default selection filters.
type Settings struct {
	Level           Level    `json:"level"             validate:"gte=1,lte=5"`
	Category        Category `json:"category"          validate:"required"`
	Voice           Voice    `json:"voice"`
	ReminderEnabled bool     `json:"reminder_enabled"`
	QuizMode        QuizMode `json:"quiz_mode"         validate:"required,oneof=duration count"`
}

// DefaultSettings returns the built-in defaults used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		Level:    MinLevel,
		Category: CategoryAll,
		Voice: Voice{
			Lang:  "en-US",
			Rate:  1.0,
			Pitch: 1.0,
		},
		QuizMode: QuizModeDuration,
	}
}

// Validate checks the fields struct tags cannot express.
func (s Settings) Validate() error {
	if !s.Level.Valid() {
		return ErrInvalidLevel
	}
	if !s.Category.IsAll() && !s.Category.Valid() {
		return ErrInvalidCategory
	}
	if !s.QuizMode.Valid() {
		return ErrInvalidQuizMode
	}
	return nil
}
