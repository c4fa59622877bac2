package logger

import "testing"

func TestMaskPayloadMasksSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"status": "successful",
		"data": map[string]any{
			"tx_ref":       "farmpro_123",
			"access_token": "EAAGsuperSecretValue9911",
		},
		"account": "650000001",
	}

	masked := MaskPayload(payload)

	if masked["status"] != "successful" {
		t.Fatalf("expected status untouched, got %v", masked["status"])
	}
	data, ok := masked["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", masked["data"])
	}
	if data["tx_ref"] != "farmpro_123" {
		t.Fatalf("expected tx_ref untouched, got %v", data["tx_ref"])
	}
	if data["access_token"] != "****9911" {
		t.Fatalf("expected masked token, got %v", data["access_token"])
	}
	if masked["account"] != "****0001" {
		t.Fatalf("expected masked account, got %v", masked["account"])
	}
}

func TestMaskPayloadShortValues(t *testing.T) {
	masked := MaskPayload(map[string]any{"secret": "abc"})
	if masked["secret"] != "****" {
		t.Fatalf("expected full mask for short value, got %v", masked["secret"])
	}
}

func TestMaskPayloadNil(t *testing.T) {
	if MaskPayload(nil) != nil {
		t.Fatal("expected nil for nil payload")
	}
}
