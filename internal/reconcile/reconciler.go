// Package reconcile implements the YNAB <-> Privacy.com matching pipeline.
//
// One run pulls the unresolved Privacy.com-imported transactions from YNAB,
// pulls the issuer-side transactions covering the same date span, pairs them
// by amount, and writes each matched merchant descriptor back as the YNAB
// transaction's memo. Re-running is always safe: a transaction that already
// carries a memo is no longer a candidate.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"ynab-privacy-sync/internal/privacy"
	"ynab-privacy-sync/internal/ynab"
)

const dateLayout = "2006-01-02"

// LedgerClient is the YNAB surface the reconciler depends on.
type LedgerClient interface {
	ListTransactions(ctx context.Context) ([]ynab.Transaction, error)
	UpdateMemo(ctx context.Context, transactionID, memo string) error
}

// IssuerClient is the Privacy.com surface the reconciler depends on.
type IssuerClient interface {
	ListTransactions(ctx context.Context, begin, end time.Time) ([]privacy.Transaction, error)
}

// Options control a single run.
type Options struct {
	// Descriptor is the payee substring that identifies issuer-imported
	// transactions, e.g. "Pwp*privacy.com".
	Descriptor string
	// DryRun logs would-be memo updates without calling YNAB.
	DryRun bool
}

// Result summarizes one run.
type Result struct {
	CandidateCount int     `json:"candidate_count"`
	UpdatedCount   int     `json:"updated_count"`
	UnmatchedCount int     `json:"unmatched_count"`
	ErrorCount     int     `json:"error_count"`
	Errors         []error `json:"-"`
}

// Reconciler runs the matching pipeline against the two services.
type Reconciler struct {
	ledger LedgerClient
	issuer IssuerClient
	logger *slog.Logger
}

// New creates a reconciler. A nil logger falls back to slog.Default.
func New(ledger LedgerClient, issuer IssuerClient, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		ledger: ledger,
		issuer: issuer,
		logger: logger,
	}
}

// Run executes one reconciliation pass. A listing failure on either service
// is fatal and returns an error; a failed memo update is recorded in the
// result and processing continues with the next transaction.
func (r *Reconciler) Run(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{
		Errors: make([]error, 0),
	}

	// 1. Unresolved ledger transactions
	transactions, err := r.ledger.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list YNAB transactions: %w", err)
	}

	candidates := filterUnresolved(transactions, opts.Descriptor)
	result.CandidateCount = len(candidates)

	r.logger.Debug("filtered ledger transactions",
		slog.Int("total", len(transactions)),
		slog.Int("candidates", len(candidates)),
		slog.String("descriptor", opts.Descriptor),
	)

	if len(candidates) == 0 {
		r.logger.Info("no unresolved transactions, nothing to do")
		return result, nil
	}

	// 2. Covering date window
	begin, end, err := dateWindow(candidates)
	if err != nil {
		return nil, err
	}

	// 3. Issuer pool for the window
	pool, err := r.issuer.ListTransactions(ctx, begin, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list Privacy.com transactions: %w", err)
	}

	pool = dropUnsettled(pool)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Created.Before(pool[j].Created)
	})

	r.logger.Debug("prepared issuer pool",
		slog.Time("begin", begin),
		slog.Time("end", end),
		slog.Int("pool_size", len(pool)),
	)

	// 4. Match and update
	for _, txn := range candidates {
		target := MilliunitsToCents(txn.Amount)

		descriptor, ok := FindAndConsume(target, &pool)
		if !ok {
			result.UnmatchedCount++
			r.logger.Debug("no issuer match",
				slog.String("transaction_id", txn.ID),
				slog.String("date", txn.Date),
				slog.Int64("amount_cents", target),
			)
			continue
		}

		if opts.DryRun {
			result.UpdatedCount++
			r.logger.Info("[dry run] would update memo",
				slog.String("transaction_id", txn.ID),
				slog.String("memo", descriptor),
			)
			continue
		}

		if err := r.ledger.UpdateMemo(ctx, txn.ID, descriptor); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Errorf("transaction %s: %w", txn.ID, err))
			r.logger.Error("failed to update memo",
				slog.String("transaction_id", txn.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		result.UpdatedCount++
		r.logger.Info("updated memo",
			slog.String("transaction_id", txn.ID),
			slog.String("date", txn.Date),
			slog.Int64("amount_cents", target),
			slog.String("memo", descriptor),
		)
	}

	return result, nil
}

// filterUnresolved keeps transactions whose payee carries the issuer
// descriptor and whose memo has not been set yet.
func filterUnresolved(transactions []ynab.Transaction, descriptor string) []ynab.Transaction {
	var unresolved []ynab.Transaction
	for _, txn := range transactions {
		if !strings.Contains(txn.PayeeName, descriptor) {
			continue
		}
		if txn.Memo != nil && *txn.Memo != "" {
			continue
		}
		unresolved = append(unresolved, txn)
	}
	return unresolved
}

// dateWindow returns the timestamp span covering every candidate's calendar
// day: midnight of the earliest day through 23:59:59.999 of the latest.
func dateWindow(candidates []ynab.Transaction) (time.Time, time.Time, error) {
	var min, max time.Time
	for _, txn := range candidates {
		day, err := time.Parse(dateLayout, txn.Date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("failed to parse date %q for transaction %s: %w", txn.Date, txn.ID, err)
		}
		if min.IsZero() || day.Before(min) {
			min = day
		}
		if max.IsZero() || day.After(max) {
			max = day
		}
	}
	end := max.AddDate(0, 0, 1).Add(-time.Millisecond)
	return min, end, nil
}

// dropUnsettled removes issuer records with a zero authorization amount.
// Those are non-monetary events (declines, pending holds) and must never
// satisfy a match, even when their nominal amount lines up.
func dropUnsettled(pool []privacy.Transaction) []privacy.Transaction {
	settled := make([]privacy.Transaction, 0, len(pool))
	for _, txn := range pool {
		if txn.AuthorizationAmount == 0 {
			continue
		}
		settled = append(settled, txn)
	}
	return settled
}
