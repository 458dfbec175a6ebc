package pipeline

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func TestSign_Deterministic(t *testing.T) {
	at := time.Unix(1700000000, 0)

	ts1, signa1, err := Sign("app123", "secret", at)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	ts2, signa2, err := Sign("app123", "secret", at)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	if ts1 != "1700000000" {
		t.Errorf("expected ts 1700000000, got %s", ts1)
	}
	if ts1 != ts2 || signa1 != signa2 {
		t.Errorf("expected identical pairs, got (%s,%s) vs (%s,%s)", ts1, signa1, ts2, signa2)
	}
	if _, err := base64.StdEncoding.DecodeString(signa1); err != nil {
		t.Errorf("signature is not valid base64: %v", err)
	}
}

func TestSign_VariesWithInputs(t *testing.T) {
	at := time.Unix(1700000000, 0)

	_, base, _ := Sign("app123", "secret", at)

	if _, other, _ := Sign("app124", "secret", at); other == base {
		t.Error("different app id produced same signature")
	}
	if _, other, _ := Sign("app123", "secret2", at); other == base {
		t.Error("different secret produced same signature")
	}
	if _, other, _ := Sign("app123", "secret", at.Add(time.Second)); other == base {
		t.Error("different timestamp produced same signature")
	}
}

func TestSign_SubSecondStable(t *testing.T) {
	at := time.Unix(1700000000, 250*int64(time.Millisecond))

	ts, signa, _ := Sign("app123", "secret", at)
	ts2, signa2, _ := Sign("app123", "secret", at.Add(400*time.Millisecond))

	if ts != ts2 || signa != signa2 {
		t.Error("signature changed within the same wall-clock second")
	}
}

func TestSign_EmptySecret(t *testing.T) {
	_, _, err := Sign("app123", "", time.Now())
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
