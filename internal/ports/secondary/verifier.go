package secondary

import "context"

// Verifier answers "does this remote object still exist?" for one source
// type. This is the only interface a new source type must implement to
// participate in verification.
//
// Verify is invoked once per batch, never once per item: every record in
// the batch shares the same batch key (owning origin), so one
// authenticated session against the remote source covers the whole group.
// A returned error means the batch as a whole could not be checked; the
// executor converts it into per-item errored results.
type Verifier interface {
	// SourceType returns the tag this verifier handles (e.g. "mail_message").
	SourceType() string

	// Verify checks existence of each record's remote counterpart.
	// The result slice carries one entry per input record. A per-item
	// Err means that item's check failed (timeout, API error), which is
	// distinct from a confirmed Exists=false.
	Verify(ctx context.Context, batchKey string, records []*RecordRow) ([]VerificationResult, error)
}

// VerificationResult is the per-item outcome of a remote existence check.
type VerificationResult struct {
	RecordID string
	Exists   bool
	Err      string // non-empty when the check itself failed
}

// MailboxClient is the narrow transport contract the mailbox verifier
// needs. The real IMAP (or API gateway) client lives outside this
// engine; only UID existence lookup is required here.
type MailboxClient interface {
	// ExistingUIDs reports which of the given message UIDs still exist in
	// the mailbox identified by remoteRef (an account address).
	ExistingUIDs(ctx context.Context, remoteRef string, uids []string) (map[string]bool, error)
}
