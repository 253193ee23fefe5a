package service

import (
	"context"
	"fmt"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/ledger/generators"
	"github.com/accounter/ledgerhub.go/rabbitmq"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

const UnbalancedLedgerMessage = "ledger is not balanced"

type GenerateOptions struct {
	InsertIfNotExists bool `json:"insert_if_not_exists"`
}

type ChargeRef struct {
	ID            uuid.UUID         `json:"id"`
	OwnerID       uuid.UUID         `json:"owner_id"`
	Type          models.ChargeType `json:"type"`
	TaxCategoryID uuid.NullUUID     `json:"tax_category_id"`
	Description   string            `json:"description"`
	Locked        bool              `json:"locked"`
}

type GeneratedLedger struct {
	Records       []models.LedgerRecord `json:"records"`
	Charge        ChargeRef             `json:"charge"`
	GeneratorKind string                `json:"generator_kind"`
	Balance       ledger.BalanceReport  `json:"balance"`
	Errors        []string              `json:"errors"`
	// Persisted is true when Records are the stored records of the charge.
	Persisted bool `json:"persisted"`
}

// GenerateResult holds either the generated ledger or the reason it could
// not be generated.
type GenerateResult struct {
	Ledger      *GeneratedLedger
	CommonError *ledger.CommonError
}

func failed(commonErr *ledger.CommonError) *GenerateResult {
	return &GenerateResult{CommonError: commonErr}
}

// resultFor turns domain failures into a result and passes infrastructure
// failures through.
func resultFor(err error) (*GenerateResult, error) {
	if commonErr, ok := ledger.AsCommonError(err); ok {
		return failed(commonErr), nil
	}
	return nil, err
}

func chargeRef(charge *models.Charge) ChargeRef {
	return ChargeRef{
		ID:            charge.ID,
		OwnerID:       charge.OwnerID,
		Type:          charge.Type,
		TaxCategoryID: charge.TaxCategoryID,
		Description:   charge.UserDescription,
		Locked:        !charge.LockedAt.IsZero(),
	}
}

// GenerateLedgerForCharge builds the ledger of a charge with the generator
// its tax category resolves to. With InsertIfNotExists a balanced ledger is
// stored unless the charge already has stored records, in which case those
// are returned. The error is reserved for infrastructure failures.
func (svc *LedgerhubService) GenerateLedgerForCharge(ctx context.Context, chargeID uuid.UUID, opts GenerateOptions) (*GenerateResult, error) {
	charge, err := svc.Charges.ChargeByID(ctx, chargeID)
	if err != nil {
		return resultFor(err)
	}
	generated, proposal, commonErr, err := svc.buildLedger(ctx, charge)
	if err != nil {
		return nil, err
	}
	if commonErr != nil {
		return failed(commonErr), nil
	}
	if !generated.Balance.IsBalanced || !opts.InsertIfNotExists || len(proposal.Records) == 0 {
		return &GenerateResult{Ledger: generated}, nil
	}

	persisted, inserted, err := svc.Ledger.InsertIfAbsent(ctx, charge, proposal.Kind.String(), proposal.Records)
	if err != nil {
		return nil, err
	}
	generated.Records = persisted
	generated.Persisted = true
	if inserted {
		svc.Logger.Infof("Stored %d ledger records for charge %s", len(persisted), charge.ID)
		svc.publishLedgerGenerated(ctx, charge, proposal.Kind, persisted)
	}
	return &GenerateResult{Ledger: generated}, nil
}

// buildLedger resolves the generator of the charge, runs it and validates its
// proposal. Nothing is written.
func (svc *LedgerhubService) buildLedger(ctx context.Context, charge *models.Charge) (*GeneratedLedger, *generators.Proposal, *ledger.CommonError, error) {
	loaders := svc.loadersFor(ctx, charge.OwnerID)
	settings, err := loaders.OwnerSettings(ctx)
	if err != nil {
		if commonErr, ok := ledger.AsCommonError(err); ok {
			return nil, nil, commonErr, nil
		}
		return nil, nil, nil, err
	}

	existing, err := svc.Ledger.RecordsByChargeID(ctx, charge.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	generator, commonErr := generators.NewResolver(settings).Resolve(charge, existing)
	if commonErr != nil {
		svc.Logger.Infof("Not generating ledger for charge %s: %s", charge.ID, commonErr.Message)
		return nil, nil, commonErr, nil
	}

	proposal, commonErr, err := generator.Generate(ctx, charge, &generators.Context{
		Settings:      settings,
		Now:           svc.now(),
		Transactions:  svc.Transactions,
		Documents:     svc.Documents,
		Rates:         loaders,
		Depreciation:  svc.Depreciation,
		AnnualAmounts: svc.AnnualAmounts,
		Revaluation:   svc.Revaluation,
	})
	if err != nil || commonErr != nil {
		return nil, nil, commonErr, err
	}

	generated := &GeneratedLedger{
		Records:       proposal.Records,
		Charge:        chargeRef(charge),
		GeneratorKind: proposal.Kind.String(),
		Balance:       ledger.Validate(proposal.Records, proposal.Rule),
		Errors:        []string{},
	}
	if generated.Records == nil {
		generated.Records = []models.LedgerRecord{}
	}
	if !generated.Balance.IsBalanced {
		svc.Logger.Warnf("Generated ledger of charge %s is not balanced, residual %s, unbalanced entities %v",
			charge.ID, generated.Balance.BalanceSum, generated.Balance.UnbalancedEntities)
		generated.Errors = append(generated.Errors, UnbalancedLedgerMessage)
	}
	return generated, proposal, nil, nil
}

// UnlockAndRegenerate clears an explicit lock of the charge and replaces its
// stored records with a freshly generated ledger. The stored ledger and the
// lock are only touched once the new ledger is generated and balanced.
// Charges in a closed period stay locked.
func (svc *LedgerhubService) UnlockAndRegenerate(ctx context.Context, chargeID uuid.UUID) (*GenerateResult, error) {
	charge, err := svc.Charges.ChargeByID(ctx, chargeID)
	if err != nil {
		return resultFor(err)
	}

	unlocked := *charge
	unlocked.LockedAt.Time = time.Time{}
	generated, proposal, commonErr, err := svc.buildLedger(ctx, &unlocked)
	if err != nil {
		return nil, err
	}
	if commonErr != nil {
		return failed(commonErr), nil
	}
	if !generated.Balance.IsBalanced {
		return &GenerateResult{Ledger: generated}, nil
	}

	persisted, err := svc.Ledger.ReplaceRecords(ctx, &unlocked, proposal.Kind.String(), proposal.Records)
	if err != nil {
		return resultFor(err)
	}
	svc.Logger.Infof("Unlocked charge %s and stored %d regenerated ledger records", charge.ID, len(persisted))
	generated.Records = persisted
	generated.Persisted = true
	if len(persisted) > 0 {
		svc.publishLedgerGenerated(ctx, &unlocked, proposal.Kind, persisted)
	}
	return &GenerateResult{Ledger: generated}, nil
}

// LockCharge prevents any further regeneration of the ledger of the charge.
func (svc *LedgerhubService) LockCharge(ctx context.Context, chargeID uuid.UUID) (*GenerateResult, error) {
	charge, err := svc.Charges.ChargeByID(ctx, chargeID)
	if err != nil {
		return resultFor(err)
	}
	lockedAt := svc.now()
	err = svc.Charges.LockCharge(ctx, charge.ID, lockedAt)
	if err != nil {
		return resultFor(err)
	}
	records, err := svc.Ledger.RecordsByChargeID(ctx, charge.ID)
	if err != nil {
		return nil, err
	}
	charge.LockedAt.Time = lockedAt
	return &GenerateResult{Ledger: &GeneratedLedger{
		Records:   records,
		Charge:    chargeRef(charge),
		Errors:    []string{},
		Persisted: true,
	}}, nil
}

// RecordsForCharge returns the stored ledger records of a charge.
func (svc *LedgerhubService) RecordsForCharge(ctx context.Context, chargeID uuid.UUID) ([]models.LedgerRecord, *ledger.CommonError, error) {
	charge, err := svc.Charges.ChargeByID(ctx, chargeID)
	if err != nil {
		commonErr, ok := ledger.AsCommonError(err)
		if ok {
			return nil, commonErr, nil
		}
		return nil, nil, err
	}
	records, err := svc.Ledger.RecordsByChargeID(ctx, charge.ID)
	if err != nil {
		return nil, nil, err
	}
	return records, nil, nil
}

func (svc *LedgerhubService) publishLedgerGenerated(ctx context.Context, charge *models.Charge, kind generators.Kind, records []models.LedgerRecord) {
	if svc.Publisher == nil {
		return
	}
	err := svc.Publisher.PublishLedgerGenerated(ctx, rabbitmq.LedgerGeneratedEvent{
		ChargeID:      charge.ID,
		OwnerID:       charge.OwnerID,
		GeneratorKind: kind.String(),
		Records:       records,
	})
	if err != nil {
		svc.Logger.Errorf("Failed to publish generated ledger of charge %s: %v", charge.ID, err)
		sentry.CaptureException(err)
	}
}

// ReconcileLedgers generates and stores the ledger of every charge. Charges
// rejected with a CommonError are skipped, an infrastructure failure stops
// the run. It returns the number of charges whose ledger is stored.
func (svc *LedgerhubService) ReconcileLedgers(ctx context.Context, chargeIDs []uuid.UUID) (int, error) {
	ctx = WithRequestCache(ctx)
	stored := 0
	for _, chargeID := range chargeIDs {
		result, err := svc.GenerateLedgerForCharge(ctx, chargeID, GenerateOptions{InsertIfNotExists: true})
		if err != nil {
			return stored, err
		}
		if result.CommonError != nil {
			svc.Logger.Warnf("Skipping charge %s: %s", chargeID, result.CommonError.Message)
			continue
		}
		if result.Ledger.Persisted {
			stored++
		}
	}
	return stored, nil
}

// RepublishLedger publishes the stored ledger of a generated charge again.
func (svc *LedgerhubService) RepublishLedger(ctx context.Context, generation models.LedgerGeneration) error {
	if svc.Publisher == nil {
		return fmt.Errorf("no rabbitmq publisher configured")
	}
	records, err := svc.Ledger.RecordsByChargeID(ctx, generation.ChargeID)
	if err != nil {
		return err
	}
	return svc.Publisher.PublishLedgerGenerated(ctx, rabbitmq.LedgerGeneratedEvent{
		ChargeID:      generation.ChargeID,
		OwnerID:       generation.OwnerID,
		GeneratorKind: generation.GeneratorKind,
		Records:       records,
	})
}

// HandleLedgerRequest generates and stores the ledger of a requested charge.
// Domain failures are logged, only infrastructure failures are returned so
// the request can be retried.
func (svc *LedgerhubService) HandleLedgerRequest(ctx context.Context, request rabbitmq.LedgerRequest) error {
	result, err := svc.GenerateLedgerForCharge(WithRequestCache(ctx), request.ChargeID, GenerateOptions{InsertIfNotExists: true})
	if err != nil {
		return err
	}
	if result.CommonError != nil {
		svc.Logger.Warnf("Ledger request for charge %s rejected: %s", request.ChargeID, result.CommonError.Message)
	}
	return nil
}
