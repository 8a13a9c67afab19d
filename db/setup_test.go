package db

import "testing"

// Duplicate-key handling matches on gorm.ErrDuplicatedKey, which only fires
// when the driver errors are translated.
func TestConfigTranslatesDriverErrors(t *testing.T) {
	if !Config().TranslateError {
		t.Fatalf("TranslateError is disabled; unique violations would surface as raw driver errors")
	}
}
