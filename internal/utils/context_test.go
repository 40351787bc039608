// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Viktor Lebedev

package utils

import (
	"context"
	"testing"

	"github.com/vlebedev/go-task-manager/models"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestGetUserFromContext_Success(t *testing.T) {
	user := &models.User{UserID: 42, Email: "john@example.com"}
	ctx := context.WithValue(context.Background(), UserCtxKey, user)

	got, ok := GetUserFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if got.UserID != 42 {
		t.Errorf("expected UserID=42, got %d", got.UserID)
	}
}

func TestGetUserFromContext_Missing(t *testing.T) {
	got, ok := GetUserFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if got != nil {
		t.Errorf("expected nil user, got %+v", got)
	}
}

func TestGetUserFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserCtxKey, "not-a-user")

	if _, ok := GetUserFromContext(ctx); ok {
		t.Fatal("expected ok=false for wrong type, got true")
	}
}

func TestGetTokenFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), TokenCtxKey, "signed-token")

	token, ok := GetTokenFromContext(ctx)
	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if token != "signed-token" {
		t.Errorf("expected 'signed-token', got %q", token)
	}

	if _, ok := GetTokenFromContext(context.Background()); ok {
		t.Fatal("expected ok=false for missing token, got true")
	}
}
