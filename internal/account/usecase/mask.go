package usecase

import (
	"strings"

	"github.com/shandysiswandi/gocharity/internal/account/entity"
)

func maskIdentifier(channel entity.OTPChannel, identifier string) string {
	if channel == entity.OTPChannelEmail {
		return maskEmail(identifier)
	}
	return maskPhone(identifier)
}

// maskPhone keeps the operator prefix and the last four digits:
// 09123456789 becomes 0912***6789.
func maskPhone(phone string) string {
	if len(phone) < 8 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:4] + strings.Repeat("*", len(phone)-8) + phone[len(phone)-4:]
}

// maskEmail keeps the first rune of the local part and the domain.
func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	r := []rune(local)
	return string(r[0]) + "***@" + domain
}

// maskNationalCode keeps the last three digits.
func maskNationalCode(nc string) string {
	if len(nc) <= 3 {
		return nc
	}
	return strings.Repeat("*", len(nc)-3) + nc[len(nc)-3:]
}
