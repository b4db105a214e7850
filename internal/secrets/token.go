package secrets

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"

	"jobfeed-engine/internal/config"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "jobfeed"
)

var ErrNoToken = errors.New("source token not found in keychain")

func GetSourceToken(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	tok, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) || (err == nil && strings.TrimSpace(tok) == "") {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return tok, nil
}

func SetSourceToken(account, token string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, token)
}

func DeleteSourceToken(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// SourceTokenAccount is source.token_account, or one derived from the
// source host so that different sources keep separate tokens.
func SourceTokenAccount(cfg config.Config) string {
	if a := strings.TrimSpace(cfg.Source.TokenAccount); a != "" {
		return a
	}
	host := cfg.Source.BaseURL
	if u, err := url.Parse(cfg.Source.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("jobfeed:source:%s", host)
}

// TokenCache reads the token from the keychain once and serves it until
// Invalidate. A missing token yields "".
type TokenCache struct {
	account string

	mu     sync.Mutex
	loaded bool
	token  string
}

func NewTokenCache(account string) *TokenCache {
	return &TokenCache{account: account}
}

func (c *TokenCache) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.token
	}
	tok, err := GetSourceToken(c.account)
	if err != nil && !errors.Is(err, ErrNoToken) {
		log.Printf("[secrets] read source token: %v", err)
	}
	c.token, c.loaded = tok, true
	return c.token
}

// Set stores token in the keychain and the cache.
func (c *TokenCache) Set(token string) error {
	if err := SetSourceToken(c.account, token); err != nil {
		return err
	}
	c.mu.Lock()
	c.token, c.loaded = token, true
	c.mu.Unlock()
	return nil
}

func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

// Clear removes the token from the keychain and the cache.
func (c *TokenCache) Clear() error {
	if err := DeleteSourceToken(c.account); err != nil {
		return err
	}
	c.mu.Lock()
	c.token, c.loaded = "", true
	c.mu.Unlock()
	return nil
}
