package remote

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/clwd/internal/util/keygen"
)

// Key discovery order matches what ssh itself prefers.
var keyNames = []string{"id_ed25519", "id_rsa", "id_ecdsa"}

// clwdKeyName is the dedicated keypair generated when no local key exists.
const clwdKeyName = "id_ed25519"

// PrivateKeyPath returns the first existing local private key, checking
// ~/.ssh then the clwd config directory for a generated key.
func PrivateKeyPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	for _, name := range keyNames {
		path := filepath.Join(home, ".ssh", name)
		if fileExists(path) {
			return path, true
		}
	}
	generated := filepath.Join(home, ".clwd", clwdKeyName)
	if fileExists(generated) {
		return generated, true
	}
	return "", false
}

// PublicKey returns the local SSH public key in authorized_keys format,
// matching the private key PrivateKeyPath would choose.
func PublicKey() (string, error) {
	priv, ok := PrivateKeyPath()
	if !ok {
		return "", fmt.Errorf("no SSH key found, generate one with: ssh-keygen -t ed25519")
	}
	data, err := os.ReadFile(priv + ".pub")
	if err != nil {
		return "", fmt.Errorf("failed to read public key %s.pub: %w", priv, err)
	}
	return string(data), nil
}

// EnsureKeyPair returns the local keypair, generating a dedicated ed25519
// key under the clwd config directory when none exists.
func EnsureKeyPair(configDir string) (privateKeyPath, publicKey string, err error) {
	if priv, ok := PrivateKeyPath(); ok {
		pub, err := PublicKey()
		if err != nil {
			return "", "", err
		}
		return priv, pub, nil
	}

	pair, err := keygen.GenerateED25519KeyPair("clwd")
	if err != nil {
		return "", "", fmt.Errorf("failed to generate SSH key: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", "", fmt.Errorf("failed to create %s: %w", configDir, err)
	}
	privPath := filepath.Join(configDir, clwdKeyName)
	if err := os.WriteFile(privPath, pair.PrivateKey, 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(privPath+".pub", pair.PublicKey, 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write public key: %w", err)
	}
	return privPath, string(pair.PublicKey), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
