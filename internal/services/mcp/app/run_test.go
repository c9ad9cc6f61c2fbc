package app

import (
	"context"
	"strings"
	"testing"
)

func TestRunInvalidTransport(t *testing.T) {
	err := Run(context.Background(), "", "", "", "websocket")
	if err == nil {
		t.Fatal("expected error for invalid transport")
	}
	if !strings.Contains(err.Error(), "invalid transport") {
		t.Errorf("unexpected error: %v", err)
	}
}
