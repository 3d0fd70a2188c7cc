package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B",
	}
	invalid := []string{
		"123e4567-e89b-12d3-a456-426614174000", // not v7
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"",
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	cases := map[string]bool{
		"jdoe":         true,
		"j.doe_01-x":   true,
		"jd":           false,
		"john doe":     false,
		"":             false,
		"name@example": false,
	}
	for in, want := range cases {
		if got := IsValidUsername(in); got != want {
			t.Errorf("IsValidUsername(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2025-06-02"); !ok {
		t.Error("IsValidDate(2025-06-02) = false, want true")
	}
	for _, in := range []string{"2025-02-30", "02-06-2025", "", "2025-6-2"} {
		if _, ok := IsValidDate(in); ok {
			t.Errorf("IsValidDate(%q) = true, want false", in)
		}
	}
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Fatal("empty ValidationErrors should yield nil error")
	}
	errs.Add("name", "name is required")
	errs.Add("max_days", "max_days must be >= 0")

	err := errs.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "name: name is required; max_days: max_days must be >= 0" {
		t.Errorf("unexpected message %q", err.Error())
	}
	m := errs.ToMap()
	if m["name"] != "name is required" || len(m) != 2 {
		t.Errorf("unexpected map %v", m)
	}
}
