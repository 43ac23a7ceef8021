package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_AccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)
	agency := uuid.New()
	sub := TokenSubject{
		UserID:      uuid.New(),
		TenantID:    uuid.New(),
		AgencyID:    &agency,
		Email:       "caisse@pressing.cm",
		Role:        "operator",
		Permissions: []string{"deposits:create"},
	}

	token, err := m.GenerateAccessToken(sub)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, sub.TenantID, claims.TenantID)
	require.NotNil(t, claims.AgencyID)
	assert.Equal(t, agency, *claims.AgencyID)
	assert.Equal(t, "operator", claims.Role)
	assert.Equal(t, []string{"deposits:create"}, claims.Permissions)

	other := NewJWTManager("other", time.Hour, time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Minute) }

	token, err := m.GenerateAccessToken(TokenSubject{UserID: uuid.New(), TenantID: uuid.New()})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	userID := uuid.New()

	refresh, err := m.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	access, err := m.GenerateAccessToken(TokenSubject{UserID: userID, TenantID: uuid.New()})
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestNumberGenerator(t *testing.T) {
	g, err := NewNumberGenerator(1)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		n := g.Next("dep-")
		require.True(t, strings.HasPrefix(n, "DEP-"), n)
		require.Equal(t, strings.ToUpper(n), n)
		require.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}

	_, err = NewNumberGenerator(5000)
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Pressing Étoile", "pressing-etoile"},
		{"  Lavage -- Express  ", "lavage-express"},
		{"Chez Maïmouna & Fils", "chez-maimouna-fils"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pressing")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pressing", hash)
	assert.True(t, CheckPasswordHash("s3cret-pressing", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret-pressing", "not-a-hash"))
}
