// Package gate implements the PIN access gate. The PIN is stored as a salted
// PBKDF2 hash and repeated failures trigger a growing lockout window.
package gate

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/pbkdf2"

	"daftar/internal/core"
)

var (
	ErrLocked     = errors.New("access locked")
	ErrBadPin     = errors.New("wrong pin")
	ErrPinFormat  = errors.New("pin must be 4 or 6 digits")
	ErrGateClosed = errors.New("unlock required")
)

const (
	pbkdf2Iterations = 210_000
	keyLength        = 32
	saltLength       = 16
)

// Policy controls the lockout behavior after consecutive failures.
type Policy struct {
	MaxAttempts int
	LockBase    time.Duration
	LockCap     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		LockBase:    30 * time.Second,
		LockCap:     15 * time.Minute,
	}
}

// Gate tracks whether the caller has proven knowledge of the PIN. Lockout
// state is in memory only: a restart clears it, the hash does not leave the
// settings record.
type Gate struct {
	mu          sync.Mutex
	policy      Policy
	enabled     bool
	unlocked    bool
	hash        []byte
	salt        []byte
	failures    int
	lockRounds  int
	lockedUntil time.Time
	now         func() time.Time
}

func New(settings core.AppSettings, policy Policy) *Gate {
	return &Gate{
		policy:   policy,
		enabled:  settings.PinEnabled,
		unlocked: !settings.PinEnabled,
		hash:     settings.PinHash,
		salt:     settings.PinSalt,
		now:      time.Now,
	}
}

// Enabled reports whether a PIN is configured at all.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Unlocked reports whether mutating operations may proceed.
func (g *Gate) Unlocked() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.unlocked
}

// Lock re-arms the gate. No-op when no PIN is configured.
func (g *Gate) Lock() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.enabled {
		g.unlocked = false
	}
}

// LockedUntil returns the end of the current lockout window, or the zero
// time when attempts are allowed.
func (g *Gate) LockedUntil() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.now().Before(g.lockedUntil) {
		return g.lockedUntil
	}
	return time.Time{}
}

// VerifyPin checks the candidate PIN. On success the gate opens and the
// failure counters reset. After MaxAttempts consecutive failures further
// attempts are rejected until the lockout window passes; each exhausted
// round doubles the window up to LockCap.
func (g *Gate) VerifyPin(pin string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.enabled {
		g.unlocked = true
		return nil
	}

	if remaining := g.lockedUntil.Sub(g.now()); remaining > 0 {
		return fmt.Errorf("%w for %s", ErrLocked, remaining.Round(time.Second))
	}

	if !validPinFormat(pin) {
		// Format rejections count as failures too, otherwise malformed
		// input would sidestep the lockout.
		g.recordFailure()
		return ErrPinFormat
	}

	candidate := deriveKey(pin, g.salt)
	if subtle.ConstantTimeCompare(candidate, g.hash) != 1 {
		g.recordFailure()
		return ErrBadPin
	}

	g.unlocked = true
	g.failures = 0
	g.lockRounds = 0
	g.lockedUntil = time.Time{}
	return nil
}

func (g *Gate) recordFailure() {
	g.failures++
	if g.failures < g.policy.MaxAttempts {
		return
	}

	window := g.policy.LockBase << g.lockRounds
	if window > g.policy.LockCap || window <= 0 {
		window = g.policy.LockCap
	}
	g.lockedUntil = g.now().Add(window)
	g.lockRounds++
	g.failures = 0
}

// SetCredentials swaps in a new PIN hash, or disables the gate when settings
// carry no PIN. The caller persists the settings; the gate only mirrors them.
func (g *Gate) SetCredentials(settings core.AppSettings) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.enabled = settings.PinEnabled
	g.hash = settings.PinHash
	g.salt = settings.PinSalt
	g.failures = 0
	g.lockRounds = 0
	g.lockedUntil = time.Time{}
	if !g.enabled {
		g.unlocked = true
	}
}

// HashPin derives a salted hash for a new PIN. The plaintext PIN is never
// stored.
func HashPin(pin string) (hash, salt []byte, err error) {
	if !validPinFormat(pin) {
		return nil, nil, ErrPinFormat
	}
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	return deriveKey(pin, salt), salt, nil
}

func deriveKey(pin string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pin), salt, pbkdf2Iterations, keyLength, sha256.New)
}

func validPinFormat(pin string) bool {
	if len(pin) != 4 && len(pin) != 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
