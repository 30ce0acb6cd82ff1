package ledger

import "golang.org/x/crypto/bcrypt"

// VerifyPIN compares a caller-supplied transaction PIN against the stored
// bcrypt credential. A mismatch is a plain false, not an error; callers
// translate it into a forbidden outcome.
func VerifyPIN(pin, credential string) bool {
	return bcrypt.CompareHashAndPassword([]byte(credential), []byte(pin)) == nil
}

// HashPIN creates the stored credential for a new account.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
