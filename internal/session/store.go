// Package session holds the client-side durable state: the bearer token, the
// cached user record and the checkout hand-off caches. Everything here is an
// ephemeral copy of backend truth and is wiped aggressively on logout or on
// any 401 response.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Deyveson/Projeto-cit/internal/api"
)

// Storage keys. These mirror the browser client this replaces.
const (
	KeyAccessToken     = "access_token"
	KeyUser            = "user"
	KeySelectedVoucher = "selectedVoucher"
	KeyLastPayment     = "lastPayment"
	KeyCompanySlug     = "company_slug"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("session: key not found")

// Store is a sqlite-backed key-value store for session state.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the session database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS session (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Set stores a raw string value.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO session (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now().UTC())
	return err
}

// Get retrieves a raw string value, or ErrNotFound.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM session WHERE key = ?`, key)
	return err
}

// Clear wipes the entire session. Used on logout and on any 401.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session`)
	return err
}

func (s *Store) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: failed to marshal %s: %w", key, err)
	}
	return s.Set(key, string(raw))
}

func (s *Store) getJSON(key string, out any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("session: failed to decode %s: %w", key, err)
	}
	return nil
}

// ==================== Token ====================

// SaveToken persists the bearer token.
func (s *Store) SaveToken(token string) error {
	return s.Set(KeyAccessToken, token)
}

// Token returns the stored bearer token, or "" when logged out. Implements
// api.TokenSource.
func (s *Store) Token() string {
	token, err := s.Get(KeyAccessToken)
	if err != nil {
		return ""
	}
	return token
}

// Authenticated reports whether a usable session exists: a token must be
// present AND, when it parses as a JWT with an exp claim, must not be
// expired. Opaque tokens fall back to presence-only.
func (s *Store) Authenticated() bool {
	token := s.Token()
	if token == "" {
		return false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true // not a JWT; presence is all we can check
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

// ==================== User ====================

// SaveUser caches the authenticated user record.
func (s *Store) SaveUser(user *api.User) error {
	return s.setJSON(KeyUser, user)
}

// User returns the cached user record.
func (s *Store) User() (*api.User, error) {
	var user api.User
	if err := s.getJSON(KeyUser, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// IsAdmin reports whether the cached user has the admin role.
func (s *Store) IsAdmin() bool {
	user, err := s.User()
	return err == nil && user.Role == api.RoleAdmin
}

// ==================== Checkout hand-off ====================

// SaveSelectedVoucher caches the voucher chosen in the catalog for the
// checkout step.
func (s *Store) SaveSelectedVoucher(v *api.Voucher) error {
	return s.setJSON(KeySelectedVoucher, v)
}

// SelectedVoucher returns the cached voucher selection.
func (s *Store) SelectedVoucher() (*api.Voucher, error) {
	var v api.Voucher
	if err := s.getJSON(KeySelectedVoucher, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ClearSelectedVoucher empties the cart.
func (s *Store) ClearSelectedVoucher() error {
	return s.Delete(KeySelectedVoucher)
}

// SaveLastPayment stores the payment result for the confirmation view.
func (s *Store) SaveLastPayment(p *api.Payment) error {
	return s.setJSON(KeyLastPayment, p)
}

// TakeLastPayment reads the last payment result and deletes it. The
// confirmation view consumes it exactly once.
func (s *Store) TakeLastPayment() (*api.Payment, error) {
	var p api.Payment
	if err := s.getJSON(KeyLastPayment, &p); err != nil {
		return nil, err
	}
	if err := s.Delete(KeyLastPayment); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveCompanySlug remembers which merchant storefront the selection came from.
func (s *Store) SaveCompanySlug(slug string) error {
	return s.Set(KeyCompanySlug, slug)
}

// CompanySlug returns the remembered merchant slug, or "".
func (s *Store) CompanySlug() string {
	slug, err := s.Get(KeyCompanySlug)
	if err != nil {
		return ""
	}
	return slug
}
