package entity

import "github.com/shandysiswandi/onboard/internal/pkg/goerror"

var (
	ErrRateLimitExceeded = goerror.NewBusiness("Too many codes requested, try again later", goerror.CodeTooManyRequest)
	ErrTooSoon           = goerror.NewBusiness("A code was sent recently, wait before requesting another", goerror.CodeTooManyRequest)
	ErrDeliveryFailed    = goerror.NewBusiness("Could not deliver the code, try again", goerror.CodeBadGateway)
	ErrNoActiveCode      = goerror.NewBusiness("No active code, request a new one", goerror.CodeUnauthorized)
	ErrExpired           = goerror.NewBusiness("Code has expired, request a new one", goerror.CodeUnauthorized)
	ErrAttemptsExhausted = goerror.NewBusiness("Too many wrong attempts, request a new code", goerror.CodeUnauthorized)
	ErrCodeMismatch      = goerror.NewBusiness("Invalid code", goerror.CodeUnauthorized)
)
