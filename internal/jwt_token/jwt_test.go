package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "tradeverify/pkg/domain-errors"
)

var jwtService = NewJWTService("test-signing-key", "tradeverify", "tradeverify-api")

func Test_IssueToken(t *testing.T) {
	token, err := jwtService.IssueToken("lc-workflow", []string{ScopeVerify}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "lc-workflow", claims.Subject)
	assert.True(t, claims.HasScope(ScopeVerify))
	assert.False(t, claims.HasScope(ScopeValidate))
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_IssueToken_RequiresSubject(t *testing.T) {
	_, err := jwtService.IssueToken("", nil, time.Hour)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.IssueToken("lc-workflow", nil, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	de, ok := dErrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "token has expired", de.Message)
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key", "tradeverify", "someone-else")
	token, err := other.IssueToken("lc-workflow", nil, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-key", "tradeverify", "tradeverify-api")
	token, err := other.IssueToken("lc-workflow", nil, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
