package domain

import (
	"strings"

	"github.com/google/uuid"
)

// 32 symbols without 0/O and 1/I so codes can be read over the phone
const confirmationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewConfirmationCode returns a random shareable code like SB-7KQ2MD
func NewConfirmationCode() string {
	id := uuid.New()
	var sb strings.Builder
	sb.Grow(len(ConfirmationCodePrefix) + ConfirmationCodeLength)
	sb.WriteString(ConfirmationCodePrefix)
	for i := 0; i < ConfirmationCodeLength; i++ {
		sb.WriteByte(confirmationAlphabet[int(id[i])%len(confirmationAlphabet)])
	}
	return sb.String()
}
