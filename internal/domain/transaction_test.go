package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestTransactionStatusValid(t *testing.T) {
	for _, status := range []TransactionStatus{StatusPendingReview, StatusSuccess, StatusFailed} {
		if !status.Valid() {
			t.Errorf("%q should be valid", status)
		}
	}
	if TransactionStatus("REVIEWING").Valid() {
		t.Error("unknown status must be invalid")
	}
}

func TestPixKeyTypeMasked(t *testing.T) {
	if !KeyTypeCPF.Masked() || !KeyTypePhone.Masked() {
		t.Error("CPF and phone keys come from masked inputs")
	}
	if KeyTypeEmail.Masked() || KeyTypeRandom.Masked() {
		t.Error("email and random keys are free text")
	}
}

func TestVerdictResultingStatus(t *testing.T) {
	if VerdictApprove.ResultingStatus() != StatusSuccess {
		t.Error("approve must resolve to SUCCESS")
	}
	if VerdictReject.ResultingStatus() != StatusFailed {
		t.Error("reject must resolve to FAILED")
	}
}

func TestTransactionValueMarshalsAsNumber(t *testing.T) {
	tx := Transaction{
		ID:     uuid.New(),
		Value:  decimal.RequireFromString("10.50"),
		Status: StatusSuccess,
	}
	encoded, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(encoded), `"value":10.5`) {
		t.Errorf("value must be a bare JSON number, got %s", encoded)
	}
	if strings.Contains(string(encoded), "fraudCode") {
		t.Errorf("absent fraud fields must be omitted, got %s", encoded)
	}
}
