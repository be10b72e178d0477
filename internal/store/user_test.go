// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := uniqueName("test-create")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.Create(ctx, username, "testpass123", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Username != username {
		t.Errorf("username: got %q, want %q", user.Username, username)
	}
	if !user.IsStaff {
		t.Error("expected is_staff=true")
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if user.PasswordHash == "" || user.PasswordHash == "testpass123" {
		t.Error("password hash must be set and not plaintext")
	}
}

func TestUserStoreFindByUsername(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := uniqueName("test-find")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		t.Fatalf("FindByUsername (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	created, err := s.Create(ctx, username, "pass", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err = s.FindByUsername(ctx, username)
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", user.ID, created.ID)
	}
}

func TestUserStoreFindByID(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	user, err := s.FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("FindByID (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for random UUID")
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	username := uniqueName("test-checkpass")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.Create(context.Background(), username, "correct-password", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.CheckPassword(user, "correct-password") {
		t.Error("expected CheckPassword to return true for correct password")
	}
	if s.CheckPassword(user, "wrong-password") {
		t.Error("expected CheckPassword to return false for wrong password")
	}
	if s.CheckPassword(user, "") {
		t.Error("expected CheckPassword to return false for empty password")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := uniqueName("test-totp")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	user, err := s.Create(ctx, username, "pass", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Needs2FAVerify() {
		t.Error("new user should not need 2FA")
	}

	if err := s.SetTOTPSecret(ctx, user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	user, _ = s.FindByID(ctx, user.ID)
	if user.TOTPSecret == nil || *user.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Errorf("expected TOTP secret set, got %v", user.TOTPSecret)
	}
	if user.Needs2FAVerify() {
		t.Error("2FA should not be required until enabled")
	}

	if err := s.EnableTOTP(ctx, user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}
	user, _ = s.FindByID(ctx, user.ID)
	if !user.Needs2FAVerify() {
		t.Error("expected 2FA required after EnableTOTP")
	}

	if err := s.ResetTOTP(ctx, user.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	user, _ = s.FindByID(ctx, user.ID)
	if user.TOTPSecret != nil || user.TOTPEnabled {
		t.Error("expected TOTP cleared after reset")
	}
}

func TestUserStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	user, err := s.Create(ctx, uniqueName("test-delete"), "pass", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	found, _ := s.FindByID(ctx, user.ID)
	if found != nil {
		t.Error("expected nil after delete")
	}
}

func TestUserStoreDuplicateUsername(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	username := uniqueName("test-dupe")
	t.Cleanup(func() { cleanUsers(t, db, username) })

	if _, err := s.Create(ctx, username, "pass", false); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := s.Create(ctx, username, "pass", false)
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", err)
	}
}
