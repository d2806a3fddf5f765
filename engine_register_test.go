package securecart_test

import (
	"context"
	"errors"
	"testing"

	"github.com/securecart/securecart"
)

func TestRegisterCreatesCustomerIdentity(t *testing.T) {
	env := newTestEnv(t)

	identity := env.register(t)
	if identity.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if identity.Role != securecart.RoleCustomer {
		t.Fatalf("role = %q, want CUSTOMER", identity.Role)
	}
	if identity.CredentialDigest == testPassword {
		t.Fatal("plaintext stored as digest")
	}
	if env.engine.Current().Phase != securecart.PhaseAnonymous {
		t.Fatal("registration must not sign the customer in")
	}

	stored, err := env.store.FindByEmail(context.Background(), testEmail)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.ID != identity.ID {
		t.Fatal("returned identity does not match stored record")
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Register(context.Background(), securecart.RegisterInput{
		Email:    testEmail,
		Password: "abc",
	})
	if !errors.Is(err, securecart.ErrWeakPassword) {
		t.Fatalf("got %v, want ErrWeakPassword", err)
	}

	var weak *securecart.WeakPasswordError
	if !errors.As(err, &weak) {
		t.Fatalf("got %T, want *WeakPasswordError", err)
	}
	if weak.Score != 0 {
		t.Fatalf("Score = %d, want 0", weak.Score)
	}

	if _, err := env.store.FindByEmail(context.Background(), testEmail); !errors.Is(err, securecart.ErrIdentityNotFound) {
		t.Fatal("rejected registration must not persist anything")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)

	_, err := env.engine.Register(context.Background(), securecart.RegisterInput{
		Email:    testEmail,
		Password: "Other12345!",
	})
	if !errors.Is(err, securecart.ErrDuplicateIdentity) {
		t.Fatalf("got %v, want ErrDuplicateIdentity", err)
	}
}

func TestRegisterHonorsExplicitRole(t *testing.T) {
	env := newTestEnv(t)

	identity, err := env.engine.Register(context.Background(), securecart.RegisterInput{
		Email:    "ops@example.com",
		Password: testPassword,
		Role:     securecart.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if identity.Role != securecart.RoleAdmin {
		t.Fatalf("role = %q, want ADMIN", identity.Role)
	}
}

func TestRegisteredIdentityCanLogIn(t *testing.T) {
	env := newTestEnv(t)
	env.register(t)
	env.authenticate(t)

	if env.engine.Current().Phase != securecart.PhaseAuthenticated {
		t.Fatal("fresh registration should complete the full login flow")
	}
}
