package entity

import "errors"

// Deposit lifecycle errors. Services map them to validation failures.
var (
	ErrIllegalTransition       = errors.New("illegal status transition")
	ErrCancelReasonRequired    = errors.New("a cancellation reason is required")
	ErrNonPositiveAmount       = errors.New("payment amount must be greater than zero")
	ErrOverpayment             = errors.New("payment exceeds the remaining balance")
	ErrPaymentsClosed          = errors.New("deposit no longer accepts payments")
	ErrInstallmentAlreadyPaid  = errors.New("installment is already paid")
	ErrInstallmentMismatch     = errors.New("payment amount must equal the installment amount")
	ErrInstallmentNotFound     = errors.New("installment does not belong to this deposit")
	ErrRefundNotAllowed        = errors.New("only fully paid or cancelled deposits with payments can be refunded")
	ErrRefundReasonRequired    = errors.New("a refund reason is required")
	ErrUpfrontExceedsTotal     = errors.New("up-front payment exceeds the total amount")
	ErrUpfrontNegative         = errors.New("up-front payment cannot be negative")
	ErrCustomerNameRequired    = errors.New("customer name is required")
	ErrCustomerPhoneRequired   = errors.New("customer phone is required")
	ErrInstallmentPlanRequired = errors.New("installment payment requires a remaining balance")
)
