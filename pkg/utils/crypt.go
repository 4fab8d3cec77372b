package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is overridden from config at startup; tests lower it to MinCost.
var BcryptCost = 10

// Crypt Encrypt the password using crypto/bcrypt
func Crypt(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(hashedPassword), err
}

// VerifyPassword Verify the password is consistent with the hashed password in the database
func VerifyPassword(password, hashedPassword string) (error, bool) {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return err, false
	}
	return nil, true
}
