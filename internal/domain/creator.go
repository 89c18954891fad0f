package domain

// LoggedInUserLabel is the creator value meaning "credit the signed-in user".
const LoggedInUserLabel = "user"

// Creator is either the signed-in user or a free-text persona chosen by the author.
type Creator struct {
	self  bool
	label string
}

// LoggedInUser credits the caller that publishes the quiz.
func LoggedInUser() Creator {
	return Creator{self: true}
}

// CustomLabel credits a persona written by the author.
func CustomLabel(label string) Creator {
	return Creator{label: label}
}

// ParseCreator converts the raw creator field of a draft.
func ParseCreator(raw string) Creator {
	if raw == LoggedInUserLabel {
		return LoggedInUser()
	}
	return CustomLabel(raw)
}

// Label returns the label stored on the game for this creator.
func (c Creator) Label(caller Caller) string {
	if c.self {
		if caller.DisplayName == "" {
			return caller.ID
		}
		return caller.DisplayName
	}
	return c.label
}
