package intake

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestValidateSignatureMatch(t *testing.T) {
	body := []byte(`{"object":"whatsapp_business_account"}`)
	if !ValidateSignature("topsecret", body, sign("topsecret", body)) {
		t.Fatal("valid signature rejected")
	}
}

func TestValidateSignatureMismatch(t *testing.T) {
	body := []byte(`{"object":"whatsapp_business_account"}`)
	if ValidateSignature("topsecret", body, sign("othersecret", body)) {
		t.Fatal("signature with wrong secret accepted")
	}
	if ValidateSignature("topsecret", body, "sha256=deadbeef") {
		t.Fatal("garbage signature accepted")
	}
}

func TestValidateSignatureMissingPrefix(t *testing.T) {
	body := []byte(`{}`)
	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	bare := hex.EncodeToString(mac.Sum(nil))

	if ValidateSignature("topsecret", body, bare) {
		t.Fatal("header without sha256= prefix accepted")
	}
	if ValidateSignature("topsecret", body, "") {
		t.Fatal("empty header accepted")
	}
}

func TestValidateSignatureDisabledWithoutSecret(t *testing.T) {
	if !ValidateSignature("", []byte(`{}`), "sha256=whatever") {
		t.Fatal("validation must be disabled when no secret is configured")
	}
}
