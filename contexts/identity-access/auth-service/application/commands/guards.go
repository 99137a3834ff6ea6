package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	domainerrors "moringadesk/contexts/identity-access/auth-service/domain/errors"
)

const (
	minPasswordLength = 8
	maxFullNameLength = 255
)

func ensureAdmin(actor entities.Identity) error {
	if strings.TrimSpace(actor.UserID) == "" {
		return domainerrors.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return domainerrors.ErrAdminOnly
	}
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domainerrors.ErrWeakPassword
	}
	return nil
}

func validateEmail(email string) (string, error) {
	email = entities.NormalizeEmail(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return "", fmt.Errorf("%w: email is not valid", domainerrors.ErrInvalidInput)
	}
	return email, nil
}
