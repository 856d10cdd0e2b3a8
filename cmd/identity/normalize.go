package identity

import "strings"

// maxDerivedUsernameLen bounds generated handles; the server enforces the
// same limit on its side.
const maxDerivedUsernameLen = 20

// DeriveUsername produces a candidate account handle from an email address:
// the local part with every non-alphanumeric character stripped, lower-cased,
// capped at 20 characters. Returns ErrInvalidInput when nothing usable remains.
func DeriveUsername(email string) (string, error) {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")

	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= maxDerivedUsernameLen {
			break
		}
	}

	if b.Len() == 0 {
		return "", ErrInvalidInput
	}
	return b.String(), nil
}

// SplitFullName splits a free-form full name into the first/last pair the
// registration endpoint expects: first token becomes the first name, the
// remaining tokens joined become the last name. A single-token name repeats
// the first name as the last name.
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(strings.TrimSpace(full))
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	} else {
		last = first
	}
	return first, last
}

// AvatarInitials returns the 2-character upper-cased abbreviation derived
// from a username. Shorter usernames are used as-is.
func AvatarInitials(username string) string {
	username = strings.TrimSpace(username)
	if len(username) > 2 {
		username = username[:2]
	}
	return strings.ToUpper(username)
}
