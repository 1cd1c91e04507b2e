package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargeGatewayStubApproves(t *testing.T) {
	result, err := ChargeGatewayStub(1000, "ZAR", "tok_visa")
	assert.NoError(t, err)
	assert.Equal(t, "approved", result.Status)
	assert.Equal(t, 29.0, result.Fee)
	assert.NotEmpty(t, result.TransactionID)
}

func TestChargeGatewayStubDeclines(t *testing.T) {
	result, err := ChargeGatewayStub(1000, "ZAR", "tok_declined_insufficient")
	assert.True(t, errors.Is(err, ErrGatewayDeclined))
	assert.Equal(t, "declined", result.Status)
}

func TestChargeGatewayStubRejectsBadAmount(t *testing.T) {
	_, err := ChargeGatewayStub(0, "ZAR", "tok_visa")
	assert.Error(t, err)

	_, err = ChargeGatewayStub(-5, "ZAR", "tok_visa")
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.01, Round2(10.005))
	assert.Equal(t, 10.0, Round2(10.0049))
	assert.Equal(t, 0.0, Round2(0))
}
