package flow

import "csvdesk/internal/session"

// MsgNoDescription is shown for headers with no known description.
const MsgNoDescription = "No description available."

var builtinDescriptions = map[string]string{
	"street": "The street name or location info.",
	"age":    "Age in years.",
	"email":  "User email address.",
}

// Describe resolves a header's description: the backend-provided
// descriptions first, then the built-in dictionary, then MsgNoDescription.
// Matching is case-sensitive and empty descriptions count as absent.
func Describe(csv *session.WorkingSet, header string) string {
	if csv != nil {
		if d, ok := csv.Description(header); ok && d != "" {
			return d
		}
	}
	if d := builtinDescriptions[header]; d != "" {
		return d
	}
	return MsgNoDescription
}
