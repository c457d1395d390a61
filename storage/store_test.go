package storage

import (
	"encoding/json"
	"testing"

	"aetui/config"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetSetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.Get("missing"); err != nil || ok {
		t.Fatalf("absent key: got ok=%v err=%v", ok, err)
	}

	if err := store.Set("k", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := store.Set("k", "v2"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	value, ok, err := store.Get("k")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if value != "v2" {
		t.Errorf("got %q, want v2", value)
	}

	if err := store.Delete("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok, _ := store.Get("k"); ok {
		t.Error("key still present after delete")
	}
	if err := store.Delete("k"); err != nil {
		t.Errorf("deleting an absent key must not error: %v", err)
	}
}

func TestUserIDStable(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	first, err := store.UserID()
	if err != nil {
		t.Fatalf("failed to get user ID: %v", err)
	}
	if first == "" {
		t.Fatal("expected a generated user ID")
	}
	store.Close()

	// Reopening the store must yield the same identity.
	store, err = Open(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer store.Close()

	second, err := store.UserID()
	if err != nil {
		t.Fatalf("failed to get user ID: %v", err)
	}
	if second != first {
		t.Errorf("user ID changed across reopen: %q vs %q", first, second)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if _, ok := store.Credentials(); ok {
		t.Fatal("expected no credentials in a fresh store")
	}

	creds := &config.Credentials{
		Location:           "us-central1",
		ResourceID:         "projects/p/locations/us-central1/reasoningEngines/1",
		ServiceAccountInfo: json.RawMessage(`{"type":"service_account","client_email":"x@y"}`),
	}
	if err := store.SaveCredentials(creds); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, ok := store.Credentials()
	if !ok {
		t.Fatal("expected stored credentials")
	}
	if loaded.Location != creds.Location || loaded.ResourceID != creds.ResourceID {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

// A malformed blob degrades to "absent" so the bootstrap dialog reopens
// instead of crashing startup.
func TestMalformedCredentialsTreatedAsAbsent(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(KeyCredentials, "{not json"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := store.Credentials(); ok {
		t.Error("malformed blob must read as absent")
	}

	if err := store.Set(KeyCredentials, `{"location":""}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := store.Credentials(); ok {
		t.Error("blob missing mandatory fields must read as absent")
	}
}

func TestResourceID(t *testing.T) {
	store := openTestStore(t)

	if _, ok := store.ResourceID(); ok {
		t.Fatal("expected no resource ID in a fresh store")
	}

	if err := store.SaveResourceID("projects/p/locations/l/reasoningEngines/9"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	id, ok := store.ResourceID()
	if !ok || id != "projects/p/locations/l/reasoningEngines/9" {
		t.Errorf("got %q ok=%v", id, ok)
	}
}
