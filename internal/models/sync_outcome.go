package models

import "fmt"

// SyncOutcome summarizes one synchronization pass. It is produced fresh by
// each pass and never persisted.
type SyncOutcome struct {
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}

// Canonical outcome messages for passes that do no per-record work.
const (
	MessageSyncInProgress = "Sync already in progress"
	MessageNothingToSync  = "Nothing to sync"
)

// NewSyncOutcome builds the outcome for a completed pass.
func NewSyncOutcome(success, failed int) SyncOutcome {
	msg := fmt.Sprintf("Synced %d items", success)
	if failed > 0 {
		msg = fmt.Sprintf("Synced %d items, %d failed", success, failed)
	}
	return SyncOutcome{Success: success, Failed: failed, Message: msg}
}
