// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	client, err := ConnectValkey(
		envOr("VALKEY_HOST", "localhost"),
		envOr("VALKEY_PORT", "6379"),
		os.Getenv("VALKEY_PASSWORD"),
	)
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}
	defer client.Close()

	if err := Ping(context.Background(), client); err != nil {
		t.Errorf("Ping after connect: %v", err)
	}
}

func TestConnectValkeyUnreachable(t *testing.T) {
	// Port 1 is reserved and never runs Valkey.
	if _, err := ConnectValkey("127.0.0.1", "1", ""); err == nil {
		t.Error("expected error for unreachable Valkey")
	}
}
