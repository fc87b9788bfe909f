package utils

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain", "8925341040", "8925341040", true},
		{"spaces", "89253 41040", "8925341040", true},
		{"dashes and parens", "(892) 534-1040", "8925341040", true},
		{"leading six", "6000000000", "6000000000", true},
		{"leading five", "5925341040", "", false},
		{"leading zero", "0925341040", "", false},
		{"nine digits", "892534104", "", false},
		{"eleven digits", "89253410401", "", false},
		{"country code", "+918925341040", "", false},
		{"letters", "89253410ab", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhone_LeadingDigit(t *testing.T) {
	for d := 0; d <= 9; d++ {
		phone := strconv.Itoa(d) + "123456789"
		_, ok := NormalizePhone(phone)
		assert.Equal(t, d >= 6, ok, "leading digit %d", d)
	}
}

func TestGenerateSecureOTP_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateSecureOTP()
		assert.NoError(t, err)
		assert.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestToE164AndMask(t *testing.T) {
	assert.Equal(t, "+918925341040", ToE164("8925341040"))
	assert.Equal(t, "+918925341040", ToE164("+918925341040"))
	assert.Equal(t, "******1040", MaskPhone("8925341040"))
	assert.Equal(t, "12", MaskPhone("12"))
}

func TestIsValidNCOCode(t *testing.T) {
	assert.True(t, IsValidNCOCode("25120101"))
	assert.False(t, IsValidNCOCode("2512010"))
	assert.False(t, IsValidNCOCode(fmt.Sprintf("%s1", "25120101")))
	assert.False(t, IsValidNCOCode("2512010a"))
}
