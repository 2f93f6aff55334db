package templates

import "fmt"

// JoinDecisionEmail renders the email sent when an owner decides a join request. It
// returns the subject, the HTML body and a plain text alternative.
func JoinDecisionEmail(name, startupName string, accepted bool, startupURL string) (string, string, string) {
	var subject, body string
	if accepted {
		subject = fmt.Sprintf("Welcome to %s", startupName)
		body = fmt.Sprintf("Hi %s,\n\nYour request to join %s was accepted. You are now on the team as a viewer.", name, startupName)
	} else {
		subject = fmt.Sprintf("Your request to join %s", startupName)
		body = fmt.Sprintf("Hi %s,\n\nYour request to join %s was not accepted this time.", name, startupName)
		startupURL = ""
	}
	return subject, RenderGenericEmail(subject, body, "Open startup", startupURL), body
}
