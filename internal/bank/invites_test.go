package bank

import (
	"context"
	"errors"
	"testing"
)

func TestInvite_InviterNotMember(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	fund(t, ledger, "P1", 10)

	_, err := ledger.Invite(context.Background(), "P1", "P2")
	if !errors.Is(err, ErrNotMember) {
		t.Fatalf("Expected ErrNotMember, got %v", err)
	}
}

func TestInvite_InviteeAlreadyMember(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := ledger.CreateJoint(ctx, "P1", "Vault"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}
	if _, err := ledger.CreateJoint(ctx, "P2", "Attic"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}

	_, err := ledger.Invite(ctx, "P1", "P2")
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("Expected ErrAlreadyMember, got %v", err)
	}
}

func TestInvite_LastInviteWins(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := ledger.CreateJoint(ctx, "P1", "Vault"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}
	if _, err := ledger.CreateJoint(ctx, "P2", "Attic"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}

	if _, err := ledger.Invite(ctx, "P1", "P3"); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	if _, err := ledger.Invite(ctx, "P2", "P3"); err != nil {
		t.Fatalf("Second invite failed: %v", err)
	}

	pending, ok := ledger.PendingInvite("p3")
	if !ok {
		t.Fatal("Expected a pending invite")
	}
	if pending != "Attic" {
		t.Errorf("Expected the newer invite (Attic) to win, got %q", pending)
	}

	joined, err := ledger.Accept(ctx, "P3")
	if err != nil {
		t.Fatalf("Accept failed: %v", err)
	}
	if joined != "Attic" {
		t.Errorf("Expected to join Attic, got %q", joined)
	}
	if _, ok := ledger.PendingInvite("P3"); ok {
		t.Error("Expected invite cleared after accept")
	}
}

func TestAccept_NoInvite(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	if _, err := ledger.Accept(context.Background(), "P1"); !errors.Is(err, ErrNoInvite) {
		t.Fatalf("Expected ErrNoInvite, got %v", err)
	}
}

// A failed accept keeps the invite pending so the player can retry or deny
// it, instead of silently discarding it.
func TestAccept_FailureRetainsInvite(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := ledger.CreateJoint(ctx, "P1", "Vault"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}
	if _, err := ledger.Invite(ctx, "P1", "P2"); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	// P2 joins a different joint account before resolving the invite.
	if _, err := ledger.CreateJoint(ctx, "P2", "Attic"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}

	_, err := ledger.Accept(ctx, "P2")
	if !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("Expected ErrAlreadyMember, got %v", err)
	}

	if _, ok := ledger.PendingInvite("P2"); !ok {
		t.Error("Expected invite retained after failed accept")
	}
	if err := ledger.Deny(ctx, "P2"); err != nil {
		t.Fatalf("Deny failed: %v", err)
	}
}

func TestDeny(t *testing.T) {
	ledger, cleanup := setupTestLedger(t)
	defer cleanup()

	ctx := context.Background()
	if err := ledger.Deny(ctx, "P2"); !errors.Is(err, ErrNoInvite) {
		t.Fatalf("Expected ErrNoInvite, got %v", err)
	}

	if _, err := ledger.CreateJoint(ctx, "P1", "Vault"); err != nil {
		t.Fatalf("CreateJoint failed: %v", err)
	}
	if _, err := ledger.Invite(ctx, "P1", "P2"); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}

	if err := ledger.Deny(ctx, "P2"); err != nil {
		t.Fatalf("Deny failed: %v", err)
	}
	if _, ok := ledger.PendingInvite("P2"); ok {
		t.Error("Expected invite cleared after deny")
	}

	// Denying leaves membership untouched.
	if _, err := ledger.JointOf(ctx, "P2"); !errors.Is(err, ErrNotMember) {
		t.Errorf("Expected P2 to remain a non-member, got %v", err)
	}
}
