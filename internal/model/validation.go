package model

const (
	maxUsernameLength = 50
	maxNameLength     = 200
	maxPhraseLength   = 500
	maxTermLength     = 200
)

// IsValidUsername reports whether s is 1-50 characters of ASCII letters,
// digits, underscore or hyphen.
func IsValidUsername(s string) bool {
	if len(s) == 0 || len(s) > maxUsernameLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// Validate checks the card's user-supplied fields.
func (c Card) Validate() error {
	if c.Phrase == "" || len(c.Phrase) > maxPhraseLength {
		return ErrInvalidPhrase
	}
	if c.Term == "" || len(c.Term) > maxTermLength {
		return ErrInvalidTerm
	}
	if c.Points == 0 {
		return ErrInvalidPoints
	}
	return nil
}

// Validate checks the template's user-supplied fields. An empty card list is
// legal at creation time; it only becomes an error when a quiz is started
// from the template.
func (t QuizTemplate) Validate() error {
	if t.Name == "" || len(t.Name) > maxNameLength {
		return ErrInvalidTemplateName
	}
	for _, id := range t.CardIDs {
		if id == "" {
			return ErrInvalidCardID
		}
	}
	return nil
}
