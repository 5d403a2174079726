package errors

import "testing"

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		pkg     string
		wantErr bool
	}{
		{"simple name", "requests", false},
		{"hyphenated", "scikit-learn", false},
		{"underscored", "typing_extensions", false},
		{"dotted", "backports.zoneinfo", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"null byte", "a\x00b", true},
		{"control char", "a\nb", true},
		{"too long", string(make([]byte, 300)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.pkg)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPackage) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPackage)
			}
		})
	}
}

func TestValidateModuleName(t *testing.T) {
	tests := []struct {
		name    string
		module  string
		wantErr bool
	}{
		{"simple", "numpy", false},
		{"dotted", "matplotlib.pyplot", false},
		{"underscore prefix", "_socket", false},
		{"digit suffix", "mod2", false},
		{"empty", "", true},
		{"leading digit", "2fast", true},
		{"empty segment", "a..b", true},
		{"hyphen", "my-module", true},
		{"space", "my module", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModuleName(tt.module)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModuleName(%q) error = %v, wantErr %v", tt.module, err, tt.wantErr)
			}
		})
	}
}
