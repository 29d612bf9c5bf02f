package mail

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const verifySubject = "Verify your email address"

// VerificationMessage builds the signup verification mail for the given
// recipient, with a link parameterized by the token id.
func VerificationMessage(baseURL, recipient string, tokenID uuid.UUID) Message {
	link := fmt.Sprintf("%s/auth/verify-email?token=%s",
		strings.TrimRight(baseURL, "/"), tokenID)

	body := fmt.Sprintf(
		"Welcome!\r\n\r\n"+
			"Please confirm your email address by opening the link below:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link is valid for a limited time and can be used only once.\r\n"+
			"If you did not sign up, you can ignore this message.\r\n",
		link)

	return Message{
		To:      recipient,
		Subject: verifySubject,
		Body:    body,
	}
}
