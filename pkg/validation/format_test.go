package validation

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		expectErr bool
	}{
		{
			name:      "Valid pretty format",
			format:    "pretty",
			expectErr: false,
		},
		{
			name:      "Valid csv format",
			format:    "csv",
			expectErr: false,
		},
		{
			name:      "Invalid format",
			format:    "json",
			expectErr: true,
		},
		{
			name:      "Empty format",
			format:    "",
			expectErr: true,
		},
		{
			name:      "Case sensitive - uppercase",
			format:    "PRETTY",
			expectErr: true,
		},
		{
			name:      "Leading/trailing spaces",
			format:    " pretty ",
			expectErr: true,
		},
		{
			name:      "Excel format not supported",
			format:    "xlsx",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)

			if tt.expectErr {
				if err == nil {
					t.Errorf("ValidateOutputFormat(%s) expected error but got none", tt.format)
				}
			} else {
				if err != nil {
					t.Errorf("ValidateOutputFormat(%s) unexpected error = %v", tt.format, err)
				}
			}
		})
	}
}

func TestValidateLoanBasis(t *testing.T) {
	tests := []struct {
		basis     string
		expectErr bool
	}{
		{"listed", false},
		{"netNet", false},
		{"netnet", true},
		{"spa", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateLoanBasis(tt.basis)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateLoanBasis(%q) error = %v, expectErr %v", tt.basis, err, tt.expectErr)
		}
	}
}

func TestValidateStampDutyPolicy(t *testing.T) {
	tests := []struct {
		policy    string
		flatRate  float64
		expectErr bool
	}{
		{"tiered", 0, false},
		{"flat", 0, false},
		{"flat", 0.5, false},
		{"flat", 150, true},
		{"sliding", 0, true},
	}

	for _, tt := range tests {
		err := ValidateStampDutyPolicy(tt.policy, tt.flatRate)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateStampDutyPolicy(%q, %v) error = %v, expectErr %v", tt.policy, tt.flatRate, err, tt.expectErr)
		}
	}
}

func TestValidateLanguage(t *testing.T) {
	tests := []struct {
		lang      string
		expectErr bool
	}{
		{"en", false},
		{"en-GB", false},
		{"zh", false},
		{"zh-CN", false},
		{"", true},
		{"not a language tag!", true},
	}

	for _, tt := range tests {
		err := ValidateLanguage(tt.lang)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateLanguage(%q) error = %v, expectErr %v", tt.lang, err, tt.expectErr)
		}
	}
}

func TestValidateCurrencyCode(t *testing.T) {
	tests := []struct {
		code      string
		expectErr bool
	}{
		{"NZD", false},
		{"MYR", false},
		{"nzd", true},
		{"NZDX", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateCurrencyCode(tt.code)
		if (err != nil) != tt.expectErr {
			t.Errorf("ValidateCurrencyCode(%q) error = %v, expectErr %v", tt.code, err, tt.expectErr)
		}
	}
}
