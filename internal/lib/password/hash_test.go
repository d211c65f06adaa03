package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	Cost = bcrypt.MinCost
	m.Run()
}

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "обычный пароль", password: "pw123"},
		{name: "спецсимволы", password: "p@ssw0rd!@#$%^&*()"},
		{name: "юникод", password: "senha-ção"},
		{name: "пустой пароль", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, strings.HasPrefix(hash, "$2a$"))

			ok, err := Verify(hash, tt.password)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := Hash("same")
	require.NoError(t, err)
	second, err := Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHash_TooLong(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 100))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	hash, err := Hash("correct_password")
	require.NoError(t, err)

	tests := []struct {
		name    string
		hash    string
		pass    string
		want    bool
		wantErr bool
	}{
		{name: "верный пароль", hash: hash, pass: "correct_password", want: true},
		{name: "неверный пароль", hash: hash, pass: "wrong_password", want: false},
		{name: "другой регистр", hash: hash, pass: "CORRECT_PASSWORD", want: false},
		{name: "повреждённый хэш", hash: "not-a-hash", pass: "correct_password", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify(tt.hash, tt.pass)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
