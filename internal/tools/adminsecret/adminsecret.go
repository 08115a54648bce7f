// Package adminsecret produces the env lines for the admin credentials: a
// bcrypt ADMIN_PASSWORD_HASH and, optionally, a random AUTH_TOKEN_SECRET.
package adminsecret

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/staff-directory/internal/auth"
)

// Config holds configuration for secret generation.
type Config struct {
	Cost        int
	SecretBytes int
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{Cost: bcrypt.DefaultCost}
	fs.IntVar(&cfg.Cost, "cost", cfg.Cost, "bcrypt cost")
	fs.IntVar(&cfg.SecretBytes, "secret-bytes", 0, "also print a random token secret of this many bytes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run reads the password from the first line of in and writes env lines to out.
func Run(cfg Config, in io.Reader, out io.Writer, random io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.SecretBytes < 0 {
		return errors.New("secret-bytes must not be negative")
	}
	if random == nil {
		random = rand.Reader
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read password: %w", err)
	}
	// Login trims the submitted password, so the stored one is trimmed too.
	password := strings.TrimSpace(line)
	if password == "" {
		return errors.New("password is required")
	}

	hash, err := auth.HashPassword(password, cfg.Cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := fmt.Fprintf(out, "ADMIN_PASSWORD_HASH=%s\n", hash); err != nil {
		return err
	}

	if cfg.SecretBytes == 0 {
		return nil
	}
	buf := make([]byte, cfg.SecretBytes)
	if _, err := io.ReadFull(random, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	_, err = fmt.Fprintf(out, "AUTH_TOKEN_SECRET=%s\n", hex.EncodeToString(buf))
	return err
}
