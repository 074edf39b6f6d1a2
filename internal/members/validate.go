package members

import (
	"errors"
	"strings"
)

// Client-side validation failures. These are raised before any request is
// sent; everything else (uniqueness, capacity, transitions) is the server's
// job and comes back as an API error.
var (
	ErrContactRequired  = errors.New("un courriel ou un numéro de téléphone est requis")
	ErrPhoneLength      = errors.New("le numéro de téléphone doit comporter exactement 10 chiffres")
	ErrPasswordTooShort = errors.New("le mot de passe doit comporter au moins 8 caractères")
	ErrPasswordMismatch = errors.New("les mots de passe ne correspondent pas")
)

const minPasswordLength = 8

// NormalizePhone strips every non-digit character.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateContact enforces the email-or-phone invariant and returns the
// normalized phone. A non-empty phone must normalize to exactly 10 digits.
func ValidateContact(email, phone string) (string, error) {
	normalized := NormalizePhone(phone)
	if email == "" && normalized == "" {
		return "", ErrContactRequired
	}
	if normalized != "" && len(normalized) != 10 {
		return "", ErrPhoneLength
	}
	return normalized, nil
}

// ValidatePassword enforces the minimum length and confirmation match.
func ValidatePassword(password, confirm string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// MatchesSearch reports whether the member matches a free-text search over
// name, email, and phone. The empty term matches everything.
func (m Member) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	haystack := strings.ToLower(m.FirstName + " " + m.LastName + " " + m.Email + " " + m.Phone)
	return strings.Contains(haystack, strings.ToLower(term))
}
