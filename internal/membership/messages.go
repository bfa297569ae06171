// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package membership

import (
	"fmt"
	"strings"
)

// InvitationURL is where an invited user accepts an organization invitation.
func InvitationURL(org string) string {
	return fmt.Sprintf("https://github.com/orgs/%s/invitation", org)
}

// MissingFieldsComment asks the author to complete the request template.
func MissingFieldsComment(author string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "@%s Please make sure to fill out all the required fields in the template:\n", author)
	for _, field := range RequiredFields {
		fmt.Fprintf(&sb, "- %s\n", field)
	}
	sb.WriteString("\nOnce you've completed the template, we'll process your request.")
	return sb.String()
}

// SummaryComment confirms receipt of a valid request awaiting approval.
func SummaryComment(author string, app *Application) string {
	return fmt.Sprintf(`@%s Thank you for your application! We are processing your membership request.

Here's a summary of your application:
- GitHub Username: %s
- Motivation: %s
- Contribution: %s

An organization owner will review your application. Please wait for their approval.`,
		author, app.RequestedUsername, app.WhyJoin, app.Contribution)
}

// DeniedComment tells a commenter they cannot approve requests.
func DeniedComment(commenter string) string {
	return fmt.Sprintf("@%s Sorry, only organization owners can approve membership requests.", commenter)
}

// ApprovedComment welcomes the author after a two-phase approval.
func ApprovedComment(author, org string) string {
	return fmt.Sprintf(`@%s Your membership request has been approved! An invitation has been sent to your email. Please check your inbox and accept the invitation.

Welcome to the %s organization! 🎉`, author, org)
}

// WelcomeComment welcomes the author after an immediate invitation and links
// directly to the invitation.
func WelcomeComment(author, org string) string {
	return fmt.Sprintf(`@%s Congratulations, your membership request has been accepted! 🎉

An invitation to the %s organization has been sent. You can accept it here: %s

Welcome aboard!`, author, org, InvitationURL(org))
}

// InvitationFailedComment apologises for a failed invitation.
func InvitationFailedComment(author string) string {
	return fmt.Sprintf("@%s Sorry, we encountered an issue while sending the invitation. Please try again later or contact an administrator.", author)
}
