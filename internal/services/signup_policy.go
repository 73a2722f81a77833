package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 15
	minPasswordLen = 6
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	msgUsernameLength  = "Username must be between 3 and 15 characters."
	msgUsernameCharset = "Username can only contain letters, numbers and underscores."
	msgEmailInvalid    = "Please enter a valid email address."
	msgUsernameTaken   = "Username is already taken."
	msgEmailTaken      = "Email is already registered."
	msgEmailNoMail     = "Email domain does not accept mail."
	msgEmailUnverified = "Could not verify the email domain, please try another address."
	msgPasswordLength  = "Password must be at least 6 characters."
	msgAccountExists   = "An account with that username or email already exists."
)

// MXResolver looks up mail exchange records. *net.Resolver satisfies it.
type MXResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// SignupPolicy decides whether a signup may create a user. Rules run in a
// fixed order and the first failure is returned.
type SignupPolicy struct {
	users     store.UserStore
	resolver  MXResolver
	checkMX   bool
	mxTimeout time.Duration
}

func NewSignupPolicy(users store.UserStore, resolver MXResolver, checkMX bool, mxTimeout time.Duration) *SignupPolicy {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	if mxTimeout <= 0 {
		mxTimeout = 5 * time.Second
	}
	return &SignupPolicy{users: users, resolver: resolver, checkMX: checkMX, mxTimeout: mxTimeout}
}

// Admit returns the normalized input, or an apperr describing the first
// rule that failed.
func (p *SignupPolicy) Admit(ctx context.Context, in SignupInput) (SignupInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := checkUsernameFormat(in.Username); err != nil {
		return in, err
	}
	if err := checkEmailFormat(in.Email); err != nil {
		return in, err
	}
	if err := p.checkUsernameFree(ctx, in.Username); err != nil {
		return in, err
	}
	if err := p.checkEmailFree(ctx, in.Email); err != nil {
		return in, err
	}
	if p.checkMX {
		if err := p.checkMailDomain(ctx, in.Email); err != nil {
			return in, err
		}
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		return in, apperr.Validation(msgPasswordLength)
	}
	return in, nil
}

func checkUsernameFormat(username string) error {
	if n := utf8.RuneCountInString(username); n < minUsernameLen || n > maxUsernameLen {
		return apperr.Validation(msgUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation(msgUsernameCharset)
	}
	return nil
}

func checkEmailFormat(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.Validation(msgEmailInvalid)
	}
	return nil
}

func (p *SignupPolicy) checkUsernameFree(ctx context.Context, username string) error {
	_, err := p.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return apperr.Conflict(msgUsernameTaken)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check username: %w", err)
	}
}

func (p *SignupPolicy) checkEmailFree(ctx context.Context, email string) error {
	_, err := p.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return apperr.Conflict(msgEmailTaken)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("check email: %w", err)
	}
}

// checkMailDomain rejects addresses whose domain publishes no MX records.
// Resolver failures are rejections too, never internal errors.
func (p *SignupPolicy) checkMailDomain(ctx context.Context, email string) error {
	domain := email[strings.LastIndex(email, "@")+1:]

	ctx, cancel := context.WithTimeout(ctx, p.mxTimeout)
	defer cancel()

	records, err := p.resolver.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return apperr.Validation(msgEmailNoMail)
		}
		return apperr.Wrap(apperr.KindUpstreamUnavailable, msgEmailUnverified, err)
	}
	if len(records) == 0 {
		return apperr.Validation(msgEmailNoMail)
	}
	return nil
}

// Availability is the answer to a username or email probe.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

func (p *SignupPolicy) UsernameAvailability(ctx context.Context, username string) (Availability, error) {
	username = strings.TrimSpace(username)
	if err := checkUsernameFormat(username); err != nil {
		return Availability{Reason: apperr.Message(err)}, nil
	}
	return availability(p.checkUsernameFree(ctx, username))
}

func (p *SignupPolicy) EmailAvailability(ctx context.Context, email string) (Availability, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkEmailFormat(email); err != nil {
		return Availability{Reason: apperr.Message(err)}, nil
	}
	return availability(p.checkEmailFree(ctx, email))
}

func availability(err error) (Availability, error) {
	switch {
	case err == nil:
		return Availability{Available: true}, nil
	case apperr.Is(err, apperr.KindConflict):
		return Availability{Reason: apperr.Message(err)}, nil
	default:
		return Availability{}, err
	}
}
