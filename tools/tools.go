package tools

import "golang.org/x/crypto/bcrypt"

func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}

// PasswordEncrypt 使用 bcrypt 对密码加密
func PasswordEncrypt(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	PanicOnErr(err)
	return string(hash)
}

// PasswordCompare 校验明文密码与加密后的密码是否一致
func PasswordCompare(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
