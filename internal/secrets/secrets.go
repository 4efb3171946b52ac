package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"

	"internfinder-engine/internal/config"
)

const (
	// "Service" groups this app's secrets in the OS keychain.
	KeyringService = "internfinder"
)

// Lookup returns the secret for account, trying the OS keychain first and
// falling back to envVar. The keychain is skipped when account is empty.
func Lookup(account string, envVar string) (string, error) {
	if strings.TrimSpace(account) != "" {
		pw, err := keyring.Get(KeyringService, account)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("secret not found for %q (set it in the keychain or via %s)", account, envVar)
}

func GetEmailPassword(cfg config.Config) (string, error) {
	return Lookup(EmailKeyringAccount(cfg), "EMAIL_PASSWORD")
}

func GetLinkedInPassword(cfg config.Config) (string, error) {
	return Lookup(LinkedInKeyringAccount(cfg), "LINKEDIN_PASSWORD")
}

func GetGeminiAPIKey() (string, error) {
	return Lookup("internfinder:gemini", "GEMINI_API_KEY")
}

func SetEmailPassword(cfg config.Config, password string) error {
	account := EmailKeyringAccount(cfg)
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func DeleteEmailPassword(cfg config.Config) error {
	account := EmailKeyringAccount(cfg)
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

func EmailKeyringAccount(cfg config.Config) string {
	if cfg.Email.Username == "" {
		return ""
	}
	return fmt.Sprintf("internfinder:imap:%s@%s", cfg.Email.Username, cfg.Email.IMAPHost)
}

func LinkedInKeyringAccount(cfg config.Config) string {
	if cfg.Sources.LinkedIn.Username == "" {
		return ""
	}
	return fmt.Sprintf("internfinder:linkedin:%s", cfg.Sources.LinkedIn.Username)
}
