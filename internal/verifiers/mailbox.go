package verifiers

import (
	"context"
	"fmt"

	"github.com/example/driftwatch/internal/ports/secondary"
)

// SourceTypeMail is the source-type tag for mirrored mail messages.
const SourceTypeMail = "mail_message"

// MailboxVerifier checks existence of mirrored mail messages through a
// MailboxClient. The batch key is an origin id whose remote_ref is the
// account address, so the whole batch resolves with one UID lookup
// against one mailbox session.
type MailboxVerifier struct {
	client  secondary.MailboxClient
	origins secondary.OriginRepository
}

// NewMailboxVerifier creates a verifier backed by the given mailbox client.
func NewMailboxVerifier(client secondary.MailboxClient, origins secondary.OriginRepository) *MailboxVerifier {
	return &MailboxVerifier{client: client, origins: origins}
}

// SourceType implements secondary.Verifier.
func (v *MailboxVerifier) SourceType() string {
	return SourceTypeMail
}

// Verify resolves the owning mailbox account and asks the client which
// message UIDs still exist. One transport call covers the whole batch.
func (v *MailboxVerifier) Verify(ctx context.Context, batchKey string, records []*secondary.RecordRow) ([]secondary.VerificationResult, error) {
	origin, err := v.origins.GetByID(ctx, batchKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve origin %s: %w", batchKey, err)
	}

	uids := make([]string, len(records))
	for i, r := range records {
		uids[i] = r.RemoteUID
	}

	existing, err := v.client.ExistingUIDs(ctx, origin.RemoteRef, uids)
	if err != nil {
		return nil, fmt.Errorf("failed to list mailbox UIDs for %s: %w", origin.RemoteRef, err)
	}

	results := make([]secondary.VerificationResult, len(records))
	for i, r := range records {
		results[i] = secondary.VerificationResult{
			RecordID: r.ID,
			Exists:   existing[r.RemoteUID],
		}
	}
	return results, nil
}

// Ensure MailboxVerifier implements the interface
var _ secondary.Verifier = (*MailboxVerifier)(nil)
