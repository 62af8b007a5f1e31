package phone

import "testing"

func TestNormalize_LocalNumberGetsCountryCode(t *testing.T) {
	got := Normalize("3334445555")
	if got != "523334445555" {
		t.Fatalf("expected 523334445555, got %q", got)
	}
}

func TestNormalize_StripsSeparators(t *testing.T) {
	got := Normalize("(333) 444-5555")
	if got != "523334445555" {
		t.Fatalf("expected 523334445555, got %q", got)
	}
}

func TestNormalize_StripsWhatsAppPrefixAndPlus(t *testing.T) {
	got := Normalize("whatsapp:+523334445555")
	if got != "523334445555" {
		t.Fatalf("expected 523334445555, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"3334445555",
		"523334445555",
		"5213334445555",
		"+52 333 444 5555",
	}
	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestNormalize_MobilePrefixedNumberUnchanged(t *testing.T) {
	// WhatsApp delivers Mexican senders as 521 + 10 digits.
	got := Normalize("5213334445555")
	if got != "5213334445555" {
		t.Fatalf("expected 5213334445555, got %q", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	if got := Normalize("   "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestFormatE164(t *testing.T) {
	if got := FormatE164("3334445555"); got != "+523334445555" {
		t.Fatalf("expected +523334445555, got %q", got)
	}
}

func TestLastDigits(t *testing.T) {
	if got := LastDigits("whatsapp:+5213334445555", 4); got != "5555" {
		t.Fatalf("expected 5555, got %q", got)
	}
	if got := LastDigits("123", 4); got != "123" {
		t.Fatalf("expected 123, got %q", got)
	}
}
