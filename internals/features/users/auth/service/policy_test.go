package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidInstitutionalEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"juan.delacruz@lspu.edu.ph", true},
		{"Maria.Santos@lspu.edu.ph", true},
		{"juan@lspu.edu.ph", false},
		{"juan.delacruz@gmail.com", false},
		{"juan.dela.cruz@lspu.edu.ph", false},
		{"juan.delacruz2@lspu.edu.ph", false},
		{"juan.delacruz@lspu.edu.phx", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidInstitutionalEmail(tt.email), tt.email)
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  string
	}{
		{name: "valid", password: "Sampaguita1"},
		{name: "too short", password: "Ab1", wantErr: "at least 8 characters"},
		{name: "no uppercase", password: "sampaguita1", wantErr: "uppercase"},
		{name: "no lowercase", password: "SAMPAGUITA1", wantErr: "lowercase"},
		{name: "no digit", password: "Sampaguita", wantErr: "digit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPasswordPolicy(tt.password)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 20 draws from a million-code space should not all collide.
	assert.Greater(t, len(seen), 1)
}
