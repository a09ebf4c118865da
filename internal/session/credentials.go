package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Credentials — логин и пароль учётной записи EA
type Credentials struct {
	Email    string
	Password string
}

func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}

// LoadCredentials читает учётные данные из окружения. envFile (если задан и существует)
// подгружается через godotenv и не перекрывает уже выставленные переменные.
func LoadCredentials(envFile, emailEnv, passwordEnv string) (Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Credentials{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	return Credentials{
		Email:    os.Getenv(emailEnv),
		Password: os.Getenv(passwordEnv),
	}, nil
}
