package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_IssueVerify(t *testing.T) {
	tok := NewTokens("s3cret", time.Hour)

	ss, err := tok.Issue(7)
	require.NoError(t, err)

	claims, err := tok.Verify(ss)
	require.NoError(t, err)
	sub, err := claims.Subject()
	require.NoError(t, err)
	assert.Equal(t, int64(7), sub)
	assert.Contains(t, claims, "exp")
}

func TestTokens_NoExpiryWhenTTLZero(t *testing.T) {
	tok := NewTokens("s3cret", 0)
	ss, err := tok.Issue(3)
	require.NoError(t, err)

	claims, err := tok.Verify(ss)
	require.NoError(t, err)
	assert.NotContains(t, claims, "exp")
}

func TestTokens_WrongSecret(t *testing.T) {
	ss, err := NewTokens("one", time.Hour).Issue(7)
	require.NoError(t, err)

	_, err = NewTokens("two", time.Hour).Verify(ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_Expired(t *testing.T) {
	tok := NewTokens("s3cret", time.Minute)
	issued := time.Unix(1700000000, 0)
	tok.now = func() time.Time { return issued }
	ss, err := tok.Issue(7)
	require.NoError(t, err)

	tok.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = tok.Verify(ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_BearerPrefixIsNotStripped(t *testing.T) {
	tok := NewTokens("s3cret", time.Hour)
	ss, err := tok.Issue(7)
	require.NoError(t, err)

	_, err = tok.Verify("Bearer " + ss)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RejectsOtherAlgorithms(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 7}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("s3cret", time.Hour).Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": 7}).SignedString([]byte("s3cret"))
	require.NoError(t, err)
	_, err = NewTokens("s3cret", time.Hour).Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_Subject(t *testing.T) {
	testCases := []struct {
		name   string
		claims Claims
		want   int64
		ok     bool
	}{
		{name: "float id", claims: Claims{"id": float64(9)}, want: 9, ok: true},
		{name: "int64 id", claims: Claims{"id": int64(4)}, want: 4, ok: true},
		{name: "empty", claims: Claims{}},
		{name: "nil", claims: nil},
		{name: "string id", claims: Claims{"id": "9"}},
		{name: "fractional id", claims: Claims{"id": 1.5}},
		{name: "missing id", claims: Claims{"sub": "x"}},
		{name: "id beyond int64", claims: Claims{"id": 1e300}},
		{name: "negative id beyond int64", claims: Claims{"id": -1e19}},
		{name: "largest exact float id", claims: Claims{"id": float64(1 << 53)}, want: 1 << 53, ok: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.claims.Subject()
			if !tc.ok {
				assert.ErrorIs(t, err, ErrNoSubject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", h)
	assert.True(t, CheckPassword(h, "secret1"))
	assert.False(t, CheckPassword(h, "secret2"))
}

func TestSubjectContext(t *testing.T) {
	_, ok := SubjectFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithSubject(context.Background(), 42)
	id, ok := SubjectFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}
