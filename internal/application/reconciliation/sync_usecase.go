// Package reconciliation hosts the bank side of the ledger: feed ingestion
// (sync) and the matching of transactions to open invoices.
package reconciliation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lumora-agency/lumora-api/internal/application/dto"
	"github.com/lumora-agency/lumora-api/internal/domain"
	"github.com/lumora-agency/lumora-api/internal/domain/entity"
	"github.com/lumora-agency/lumora-api/internal/domain/repository"
	"github.com/lumora-agency/lumora-api/pkg/logger"
)

// SyncUseCase pulls the bank feed and persists new transactions.
type SyncUseCase struct {
	feed   FeedClient
	txRepo repository.BankTransactionRepository
	log    *logger.Logger

	// running guards against overlapping syncs: the dedup reasoning in the
	// insert path assumes one run at a time per deployment.
	running atomic.Bool
}

// NewSyncUseCase builds the use case.
func NewSyncUseCase(feed FeedClient, txRepo repository.BankTransactionRepository, log *logger.Logger) *SyncUseCase {
	return &SyncUseCase{feed: feed, txRepo: txRepo, log: log}
}

// Sync fetches the trailing daysBack window and inserts each unseen item.
// Dedup is the external_id unique constraint, not an existence check.
// Already-imported items survive a mid-run failure — the run is resumable
// by calling Sync again. A concurrent call fails with ErrSyncInProgress.
func (uc *SyncUseCase) Sync(ctx context.Context, daysBack int) (*dto.SyncResult, error) {
	if daysBack <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if !uc.running.CompareAndSwap(false, true) {
		return nil, domain.ErrSyncInProgress
	}
	defer uc.running.Store(false)

	since := time.Now().AddDate(0, 0, -daysBack)
	items, err := uc.feed.FetchTransactions(ctx, since)
	if err != nil {
		return nil, err
	}

	result := &dto.SyncResult{Fetched: len(items)}
	now := time.Now()
	for _, item := range items {
		inserted, err := uc.txRepo.Insert(ctx, &entity.BankTransaction{
			ID:               uuid.New().String(),
			ExternalID:       item.ExternalID,
			Amount:           item.Amount,
			Label:            item.Label,
			CounterpartyName: item.CounterpartyName,
			OccurredAt:       item.OccurredAt,
			CreatedAt:        now,
		})
		if err != nil {
			// Partial success stands: what is imported stays imported.
			uc.log.Error().Err(err).Str("external_id", item.ExternalID).Msg("bank sync aborted mid-run")
			return result, err
		}
		if inserted {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	uc.log.Info().
		Int("fetched", result.Fetched).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("bank sync completed")
	return result, nil
}

// ListUnassociated returns the transactions still awaiting reconciliation.
func (uc *SyncUseCase) ListUnassociated(ctx context.Context) ([]dto.BankTransactionResponse, error) {
	txs, err := uc.txRepo.ListUnassociated(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BankTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toBankTransactionResponse(tx))
	}
	return out, nil
}

func toBankTransactionResponse(tx *entity.BankTransaction) dto.BankTransactionResponse {
	resp := dto.BankTransactionResponse{
		ID:               tx.ID,
		ExternalID:       tx.ExternalID,
		Amount:           tx.Amount,
		Label:            tx.Label,
		CounterpartyName: tx.CounterpartyName,
		OccurredAt:       tx.OccurredAt,
	}
	if tx.AssociatedDocumentID != nil {
		resp.AssociatedDocumentID = *tx.AssociatedDocumentID
	}
	return resp
}
