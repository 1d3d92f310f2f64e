package utils

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for stored passwords.
const PasswordCost = 10

// maxPasswordBytes is bcrypt's input limit. Longer passwords are cut to it,
// so only the first 72 bytes take part in hashing and comparison.
const maxPasswordBytes = 72

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(clampPassword(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), clampPassword(password)) == nil
}

func clampPassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
