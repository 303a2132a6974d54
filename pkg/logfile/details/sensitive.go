package details

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/randalmurphal/logfile/pkg/logfile/aes256"
)

var (
	// ErrSetupWithoutSensitive is returned when a setup name is given for an
	// insensitive marker.
	ErrSetupWithoutSensitive = errors.New("details: setup name requires a sensitive marker")

	// ErrNilSettings is returned when no sensitive settings are given.
	ErrNilSettings = errors.New("details: sensitive settings are nil")

	// ErrUnsupportedSettings is returned for settings variants Encrypt does
	// not know.
	ErrUnsupportedSettings = fmt.Errorf("details: unsupported sensitive settings: %w", errors.ErrUnsupported)

	// ErrNilCipher is returned when serializing a nil cipher.
	ErrNilCipher = errors.New("details: cipher is nil")

	// ErrInvalidKeySize is returned when an AES-256 secret is not 32 bytes.
	ErrInvalidKeySize = errors.New("details: aes256 secret must be 32 bytes")
)

// Sensitive marks the beginning or the end of sensitive data in an event's
// detail list. Details between a sensitive and an insensitive marker are
// meant to be encrypted by sinks using the named setup.
type Sensitive struct {
	IsSensitive bool

	// SetupName selects the sink-side setup. Always nil when IsSensitive is
	// false.
	SetupName *string
}

// NewSensitive creates a marker.
func NewSensitive(isSensitive bool, setupName *string) (*Sensitive, error) {
	if !isSensitive && setupName != nil {
		return nil, ErrSetupWithoutSensitive
	}
	return &Sensitive{IsSensitive: isSensitive, SetupName: setupName}, nil
}

func (s *Sensitive) String() string {
	if !s.IsSensitive {
		return "Insensitive"
	}
	if s.SetupName == nil {
		return "Sensitive"
	}
	return "Sensitive (Setup=" + *s.SetupName + ")"
}

// SensitiveSettings configures how sensitive data gets encrypted.
type SensitiveSettings interface {
	// Algorithm names the encryption scheme.
	Algorithm() string
}

// Aes256IV is the initialization vector used with Aes256Settings. It is the
// byte layout of GUID 7DB5A851-D8B9-470F-B06E-537745E92330 with the first
// three groups in little-endian order.
var Aes256IV = guidBytes(uuid.MustParse("7DB5A851-D8B9-470F-B06E-537745E92330"))

func guidBytes(u uuid.UUID) []byte {
	b := make([]byte, 16)
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	copy(b[8:], u[8:])
	return b
}

// Aes256Settings encrypts with AES-256 and a caller-supplied secret.
type Aes256Settings struct {
	secret []byte
}

// NewAes256Settings copies secret, which must be exactly 32 bytes.
func NewAes256Settings(secret []byte) (*Aes256Settings, error) {
	if len(secret) != aes256.KeySize {
		return nil, ErrInvalidKeySize
	}
	return &Aes256Settings{secret: append([]byte(nil), secret...)}, nil
}

// Algorithm implements SensitiveSettings.
func (s *Aes256Settings) Algorithm() string { return "aes256" }

// Secret returns a copy of the key.
func (s *Aes256Settings) Secret() []byte {
	return append([]byte(nil), s.secret...)
}

// Encrypt encrypts data according to settings. A nil data slice yields a nil
// cipher without error.
func Encrypt(settings SensitiveSettings, data []byte) ([]byte, error) {
	if settings == nil {
		return nil, ErrNilSettings
	}

	switch s := settings.(type) {
	case *Aes256Settings:
		if data == nil {
			return nil, nil
		}
		return aes256.Encrypt(data, s.secret, Aes256IV)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSettings, settings.Algorithm())
	}
}

// Serialize encodes a cipher as standard base64.
func Serialize(cipher []byte) (string, error) {
	if cipher == nil {
		return "", ErrNilCipher
	}
	return base64.StdEncoding.EncodeToString(cipher), nil
}
