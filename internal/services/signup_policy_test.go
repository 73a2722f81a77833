package services

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/store"
	"github.com/stretchr/testify/require"
)

func TestSignupPolicy_Admit(t *testing.T) {
	s := store.NewMemoryStore()
	seedUser(t, s, "taken")

	tests := []struct {
		name     string
		in       SignupInput
		resolver *fakeResolver
		wantKind apperr.Kind
		wantMsg  string
	}{
		{
			name:     "username_too_short",
			in:       SignupInput{Username: "ab", Email: "ab@example.com", Password: "secret1"},
			wantKind: apperr.KindValidation,
			wantMsg:  msgUsernameLength,
		},
		{
			name:     "username_too_long",
			in:       SignupInput{Username: "abcdefghijklmnop", Email: "a@example.com", Password: "secret1"},
			wantKind: apperr.KindValidation,
			wantMsg:  msgUsernameLength,
		},
		{
			name:     "username_bad_charset",
			in:       SignupInput{Username: "bad-name", Email: "a@example.com", Password: "secret1"},
			wantKind: apperr.KindValidation,
			wantMsg:  msgUsernameCharset,
		},
		{
			name:     "email_shape",
			in:       SignupInput{Username: "newbie", Email: "not-an-email", Password: "secret1"},
			wantKind: apperr.KindValidation,
			wantMsg:  msgEmailInvalid,
		},
		{
			name:     "username_taken_before_email",
			in:       SignupInput{Username: "taken", Email: "TAKEN@example.com", Password: "secret1"},
			wantKind: apperr.KindConflict,
			wantMsg:  msgUsernameTaken,
		},
		{
			name:     "email_taken_case_folded",
			in:       SignupInput{Username: "newbie", Email: "  Taken@Example.com ", Password: "secret1"},
			wantKind: apperr.KindConflict,
			wantMsg:  msgEmailTaken,
		},
		{
			name:     "no_mx_records",
			in:       SignupInput{Username: "newbie", Email: "newbie@nomail.test", Password: "secret1"},
			resolver: &fakeResolver{},
			wantKind: apperr.KindValidation,
			wantMsg:  msgEmailNoMail,
		},
		{
			name:     "domain_does_not_exist",
			in:       SignupInput{Username: "newbie", Email: "newbie@nowhere.test", Password: "secret1"},
			resolver: &fakeResolver{err: &net.DNSError{Err: "no such host", Name: "nowhere.test", IsNotFound: true}},
			wantKind: apperr.KindValidation,
			wantMsg:  msgEmailNoMail,
		},
		{
			name:     "resolver_failure_is_a_rejection",
			in:       SignupInput{Username: "newbie", Email: "newbie@flaky.test", Password: "secret1"},
			resolver: &fakeResolver{err: errors.New("i/o timeout")},
			wantKind: apperr.KindUpstreamUnavailable,
			wantMsg:  msgEmailUnverified,
		},
		{
			name:     "password_too_short",
			in:       SignupInput{Username: "newbie", Email: "newbie@example.com", Password: "12345"},
			wantKind: apperr.KindValidation,
			wantMsg:  msgPasswordLength,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resolver := tc.resolver
			if resolver == nil {
				resolver = mxOK()
			}
			policy := NewSignupPolicy(s.Users, resolver, true, time.Second)

			_, err := policy.Admit(context.Background(), tc.in)
			require.Error(t, err)
			require.Equal(t, tc.wantKind, apperr.KindOf(err))
			require.Equal(t, tc.wantMsg, apperr.Message(err))
		})
	}
}

func TestSignupPolicy_AdmitNormalizes(t *testing.T) {
	s := store.NewMemoryStore()
	resolver := mxOK()
	policy := NewSignupPolicy(s.Users, resolver, true, time.Second)

	got, err := policy.Admit(context.Background(), SignupInput{
		Username: "  new_user ",
		Email:    " New.User@Example.COM",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "new_user", got.Username)
	require.Equal(t, "new.user@example.com", got.Email)
	require.Equal(t, 1, resolver.calls)
}

func TestSignupPolicy_MXCheckDisabled(t *testing.T) {
	s := store.NewMemoryStore()
	resolver := &fakeResolver{err: errors.New("should not be called")}
	policy := NewSignupPolicy(s.Users, resolver, false, time.Second)

	_, err := policy.Admit(context.Background(), SignupInput{Username: "newbie", Email: "newbie@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.Zero(t, resolver.calls)
}

func TestSignupPolicy_Availability(t *testing.T) {
	s := store.NewMemoryStore()
	seedUser(t, s, "taken")
	policy := NewSignupPolicy(s.Users, mxOK(), true, time.Second)
	ctx := context.Background()

	got, err := policy.UsernameAvailability(ctx, "fresh")
	require.NoError(t, err)
	require.Equal(t, Availability{Available: true}, got)

	got, err = policy.UsernameAvailability(ctx, "taken")
	require.NoError(t, err)
	require.Equal(t, Availability{Reason: msgUsernameTaken}, got)

	got, err = policy.UsernameAvailability(ctx, "x")
	require.NoError(t, err)
	require.Equal(t, Availability{Reason: msgUsernameLength}, got)

	got, err = policy.EmailAvailability(ctx, "TAKEN@example.com")
	require.NoError(t, err)
	require.Equal(t, Availability{Reason: msgEmailTaken}, got)

	got, err = policy.EmailAvailability(ctx, "nope")
	require.NoError(t, err)
	require.False(t, got.Available)
	require.Equal(t, msgEmailInvalid, got.Reason)
}
