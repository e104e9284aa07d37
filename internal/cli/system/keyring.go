package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/keyring"
	"github.com/maticai/matic/internal/storage/sqlstore"
)

func knownSecret(name string) (keyring.Secret, error) {
	secret, ok := keyring.Known(name)
	if !ok {
		return "", fmt.Errorf("unknown secret %q (expected %s, %s or %s)", name,
			keyring.SecretDBConnection, keyring.SecretFDCAPIKey, keyring.SecretAIAPIKey)
	}
	return secret, nil
}

// KeyringSetCmd stores a secret in the OS keyring
type KeyringSetCmd struct {
	Name  string `arg:"" help:"Secret name (database-connection, fdc-api-key, ai-api-key)."`
	Value string `arg:"" help:"Secret value."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	secret, err := knownSecret(cmd.Name)
	if err != nil {
		return err
	}

	if secret == keyring.SecretDBConnection {
		if !sqlstore.IsPostgresURL(cmd.Value) && !strings.Contains(cmd.Value, "host=") {
			return errors.New("connection string must be a valid PostgreSQL connection string")
		}
		if err := sqlstore.ValidateConnString(cmd.Value); err != nil {
			if !errors.Is(err, sqlstore.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// Embedded passwords are acceptable inside the encrypted keyring.
			ctx.Printf("⚠️  Warning: Connection string contains embedded credentials.\n")
			ctx.Printf("   It will be stored as-is in the encrypted OS keyring.\n")
		}
	}

	if err := keyring.Set(secret, cmd.Value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", secret, err)
	}
	ctx.Printf("✓ %s stored in OS keyring\n", secret)
	return nil
}

// KeyringGetCmd prints a stored secret with its sensitive part masked
type KeyringGetCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	secret, err := knownSecret(cmd.Name)
	if err != nil {
		return err
	}
	value, err := keyring.Get(secret)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring. Use 'matic keyring set' to store one", secret)
		}
		return fmt.Errorf("failed to retrieve %s from keyring: %w", secret, err)
	}

	if secret == keyring.SecretDBConnection {
		ctx.Printf("%s\n", maskPassword(value))
	} else {
		ctx.Printf("%s\n", maskKey(value))
	}
	return nil
}

// KeyringDeleteCmd removes a secret from the OS keyring
type KeyringDeleteCmd struct {
	Name string `arg:"" help:"Secret name."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	secret, err := knownSecret(cmd.Name)
	if err != nil {
		return err
	}
	if err := keyring.Delete(secret); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", secret)
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", secret, err)
	}
	ctx.Printf("✓ %s deleted from OS keyring\n", secret)
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if sqlstore.IsPostgresURL(connStr) {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}
	return connStr
}

// maskKey keeps the last four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
