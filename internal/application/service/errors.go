package service

import (
	"errors"

	"github.com/sangkips/pressing-api/internal/application/receipt"
	"github.com/sangkips/pressing-api/internal/domain/entity"
	"github.com/sangkips/pressing-api/internal/domain/pricing"
	"github.com/sangkips/pressing-api/internal/domain/repository"
	"github.com/sangkips/pressing-api/pkg/apperror"
)

// ruleErrors are business rule violations. The operator fixes the input and retries.
var ruleErrors = []error{
	pricing.ErrNoItems,
	pricing.ErrInvalidQuantity,
	pricing.ErrInvalidUnitPrice,
	pricing.ErrNegativeDiscount,
	pricing.ErrDiscountTooLarge,
	pricing.ErrInstallmentCount,
	pricing.ErrInstallmentInterval,
	pricing.ErrNothingToSchedule,
	pricing.ErrPlanTooFine,
	pricing.ErrAmountPrecision,
	entity.ErrIllegalTransition,
	entity.ErrCancelReasonRequired,
	entity.ErrNonPositiveAmount,
	entity.ErrOverpayment,
	entity.ErrPaymentsClosed,
	entity.ErrInstallmentAlreadyPaid,
	entity.ErrInstallmentMismatch,
	entity.ErrInstallmentNotFound,
	entity.ErrRefundNotAllowed,
	entity.ErrRefundReasonRequired,
	entity.ErrUpfrontExceedsTotal,
	entity.ErrUpfrontNegative,
	entity.ErrCustomerNameRequired,
	entity.ErrCustomerPhoneRequired,
	entity.ErrInstallmentPlanRequired,
}

// translate maps domain errors onto AppErrors. Errors that already are AppErrors,
// and unknown errors, pass through unchanged.
func translate(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	if errors.Is(err, repository.ErrOptimisticLock) {
		return apperror.NewRetryableConflict("The deposit was modified by another operator, reload it and try again", err)
	}
	if errors.Is(err, receipt.ErrInconsistentTotals) {
		return apperror.NewInternalError("Deposit amounts are inconsistent, the receipt was not issued", err)
	}
	for _, target := range ruleErrors {
		if errors.Is(err, target) {
			return apperror.NewRuleError(err)
		}
	}
	return err
}
