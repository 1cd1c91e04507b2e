package utils

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// GatewayResult is what the (stubbed) payment gateway returns.
type GatewayResult struct {
	TransactionID string  `json:"transaction_id"`
	Status        string  `json:"status"`
	Fee           float64 `json:"fee"`
	Message       string  `json:"message,omitempty"`
}

var ErrGatewayDeclined = errors.New("gateway_declined")

// ChargeGatewayStub simulates charging an external payment gateway.
// A card token containing "declined" fails, so the failure path is testable
// end to end without a real gateway.
func ChargeGatewayStub(amount float64, currency, cardToken string) (*GatewayResult, error) {
	if amount <= 0 {
		return nil, errors.New("invalid amount")
	}
	if strings.Contains(strings.ToLower(cardToken), "declined") {
		return &GatewayResult{
			TransactionID: "GW-" + uuid.NewString(),
			Status:        "declined",
			Message:       "card declined by issuer",
		}, ErrGatewayDeclined
	}
	return &GatewayResult{
		TransactionID: "GW-" + uuid.NewString(),
		Status:        "approved",
		Fee:           Round2(amount * 0.029), // flat 2.9% processing fee
	}, nil
}
