package encrypter

import "golang.org/x/crypto/bcrypt"

// HashKey hashes an API key using bcrypt with the default cost. The plain
// key never reaches configuration files; only the hash is stored.
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckKey compares a plain API key against its bcrypt hash.
func CheckKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}
