// Package flash carries one-shot messages across a redirect.
//
// The messages travel in a cookie holding an HS256-signed JWT:
//
//	write handler -> Add -> 303 redirect -> next GET -> Pop -> rendered once
//
// Signing keeps a visitor from forging "successfully listed" banners, and the
// short expiry means a message that is never shown quietly disappears. The
// server keeps no state; the secret is all it needs.
package flash

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const (
	CookieName = "stagebook_flash"
	issuer     = "stagebook"
	lifetime   = 5 * time.Minute
	// Cookies are capped around 4KB; older messages are dropped past this.
	maxMessages = 5
)

// Categories map onto the alert styles in the layout.
const (
	Success = "success"
	Danger  = "danger"
)

// Message is one flashed line.
type Message struct {
	Category string `json:"c"`
	Text     string `json:"t"`
}

type claims struct {
	jwt.RegisteredClaims
	Messages []Message `json:"msgs"`
}

// Store reads and writes the flash cookie.
type Store struct {
	secret []byte
	secure bool
	now    func() time.Time
}

// New creates a Store. secure sets the cookie's Secure attribute and should
// be true whenever the site is served over HTTPS.
func New(secret string, secure bool) (*Store, error) {
	if len(secret) < 16 {
		return nil, errors.New("flash: secret must be at least 16 characters")
	}
	return &Store{secret: []byte(secret), secure: secure, now: time.Now}, nil
}

// Add appends a message to any still-pending ones and rewrites the cookie.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, category, text string) error {
	msgs := s.read(r)
	msgs = append(msgs, Message{Category: category, Text: text})
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}

	token, err := s.sign(msgs)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending messages and clears the cookie. A missing, expired
// or tampered cookie yields no messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	if _, err := r.Cookie(CookieName); err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s.read(r)
}

func (s *Store) read(r *http.Request) []Message {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	msgs, err := s.parse(cookie.Value)
	if err != nil {
		return nil
	}
	return msgs
}

func (s *Store) sign(msgs []Message) (string, error) {
	now := s.now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
		Messages: msgs,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("flash: signing: %w", err)
	}
	return signed, nil
}

// parse verifies the signature, issuer and expiry. Only HS256 is accepted so
// an unsigned ("alg": "none") token is rejected.
func (s *Store) parse(token string) ([]Message, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("flash: %w", err)
	}
	return c.Messages, nil
}
