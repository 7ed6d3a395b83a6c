package verifiers

import (
	"context"
	"errors"
	"testing"

	"github.com/example/driftwatch/internal/ports/secondary"
)

type mockMailboxClient struct {
	existing   map[string]bool
	err        error
	lastRef    string
	lastUIDs   []string
	callCounts int
}

func (m *mockMailboxClient) ExistingUIDs(_ context.Context, remoteRef string, uids []string) (map[string]bool, error) {
	m.callCounts++
	m.lastRef = remoteRef
	m.lastUIDs = uids
	if m.err != nil {
		return nil, m.err
	}
	return m.existing, nil
}

func mailOrigin() *secondary.OriginRow {
	return &secondary.OriginRow{
		ID:         "ORIG-001",
		SourceType: SourceTypeMail,
		Name:       "ops inbox",
		RemoteRef:  "ops@example.com",
		Status:     secondary.OriginStatusActive,
	}
}

func TestMailboxVerifierSplitsPresentAndGone(t *testing.T) {
	client := &mockMailboxClient{existing: map[string]bool{"1001": true}}
	v := NewMailboxVerifier(client, newMockOriginRepo(mailOrigin()))

	records := []*secondary.RecordRow{
		{ID: "REC-1", OriginID: "ORIG-001", SourceType: SourceTypeMail, RemoteUID: "1001"},
		{ID: "REC-2", OriginID: "ORIG-001", SourceType: SourceTypeMail, RemoteUID: "1002"},
	}

	results, err := v.Verify(context.Background(), "ORIG-001", records)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Exists || results[0].RecordID != "REC-1" {
		t.Errorf("expected REC-1 to exist, got %+v", results[0])
	}
	if results[1].Exists || results[1].RecordID != "REC-2" {
		t.Errorf("expected REC-2 to be gone, got %+v", results[1])
	}
}

func TestMailboxVerifierOneTransportCallPerBatch(t *testing.T) {
	client := &mockMailboxClient{existing: map[string]bool{}}
	v := NewMailboxVerifier(client, newMockOriginRepo(mailOrigin()))

	records := []*secondary.RecordRow{
		{ID: "REC-1", OriginID: "ORIG-001", RemoteUID: "1"},
		{ID: "REC-2", OriginID: "ORIG-001", RemoteUID: "2"},
		{ID: "REC-3", OriginID: "ORIG-001", RemoteUID: "3"},
	}

	if _, err := v.Verify(context.Background(), "ORIG-001", records); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if client.callCounts != 1 {
		t.Errorf("expected 1 transport call for the batch, got %d", client.callCounts)
	}
	if client.lastRef != "ops@example.com" {
		t.Errorf("expected lookup against ops@example.com, got %s", client.lastRef)
	}
	if len(client.lastUIDs) != 3 {
		t.Errorf("expected 3 uids in lookup, got %v", client.lastUIDs)
	}
}

func TestMailboxVerifierTransportErrorFailsBatch(t *testing.T) {
	client := &mockMailboxClient{err: errors.New("connection refused")}
	v := NewMailboxVerifier(client, newMockOriginRepo(mailOrigin()))

	records := []*secondary.RecordRow{{ID: "REC-1", OriginID: "ORIG-001", RemoteUID: "1"}}

	if _, err := v.Verify(context.Background(), "ORIG-001", records); err == nil {
		t.Fatal("expected error when transport fails, got nil")
	}
}

func TestMailboxVerifierUnknownOrigin(t *testing.T) {
	v := NewMailboxVerifier(&mockMailboxClient{}, newMockOriginRepo())

	if _, err := v.Verify(context.Background(), "ORIG-404", nil); err == nil {
		t.Fatal("expected error for unknown origin, got nil")
	}
}
