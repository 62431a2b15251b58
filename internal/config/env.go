package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvJiraEmail     = "JIRA_EMAIL"
	EnvJiraAPIToken  = "JIRA_API_TOKEN"
	EnvTempoAPIToken = "TEMPO_API_TOKEN"
	EnvMediaFilePath = "MEDIA_FILE_PATH"
)

// ErrMissingEnv matches every MissingEnvError via errors.Is.
var ErrMissingEnv = errors.New("required environment variable not set")

// MissingEnvError reports a required environment variable that is unset or blank.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("%s not found. Please set %s in your environment variables.", envLabel(e.Name), e.Name)
}

// Is lets errors.Is(err, ErrMissingEnv) succeed.
func (e *MissingEnvError) Is(target error) bool {
	return target == ErrMissingEnv
}

func envLabel(name string) string {
	switch name {
	case EnvJiraEmail:
		return "Email"
	case EnvJiraAPIToken:
		return "JIRA API token"
	case EnvTempoAPIToken:
		return "TEMPO token"
	default:
		return name
	}
}

// Credentials holds the secrets read from the environment. Immutable after load.
type Credentials struct {
	Email         string
	JiraAPIToken  string
	TempoAPIToken string
	MediaFilePath string
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Values in the file override variables that are already set. A missing file is
// not an error; found reports whether a file was read.
func LoadEnvFile(path string) (found bool, err error) {
	if path == "" {
		path = ".env"
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return false, nil
	}
	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}

// LoadCredentials reads the credentials through getenv (os.Getenv when nil).
// MEDIA_FILE_PATH is only required when requireMedia is set, since commands that
// never show a reminder have no use for it.
func LoadCredentials(getenv func(string) string, requireMedia bool) (*Credentials, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	required := []string{EnvJiraEmail, EnvJiraAPIToken, EnvTempoAPIToken}
	if requireMedia {
		required = append(required, EnvMediaFilePath)
	}

	values := make(map[string]string, len(required)+1)
	for _, name := range required {
		v := strings.TrimSpace(getenv(name))
		if v == "" {
			return nil, &MissingEnvError{Name: name}
		}
		values[name] = v
	}
	if !requireMedia {
		values[EnvMediaFilePath] = strings.TrimSpace(getenv(EnvMediaFilePath))
	}

	return &Credentials{
		Email:         values[EnvJiraEmail],
		JiraAPIToken:  values[EnvJiraAPIToken],
		TempoAPIToken: values[EnvTempoAPIToken],
		MediaFilePath: values[EnvMediaFilePath],
	}, nil
}

// MaskedToken shortens a token for display, keeping only the last four characters.
func MaskedToken(token string) string {
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
