package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Currency  string `validate:"omitempty,iso4217"`
	Color     string `validate:"omitempty,hex_color"`
	TxType    string `validate:"omitempty,transaction_type"`
	AccType   string `validate:"omitempty,account_type"`
	Frequency string `validate:"omitempty,frequency"`
	Date      string `validate:"omitempty,calendar_date"`
	Language  string `validate:"omitempty,language"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"lak_currency", sample{Currency: "LAK"}, true},
		{"unknown_currency", sample{Currency: "XYZ"}, false},
		{"short_hex", sample{Color: "#fff"}, true},
		{"tailwind_class_is_not_hex", sample{Color: "bg-green-500"}, false},
		{"income", sample{TxType: "INCOME"}, true},
		{"lowercase_type", sample{TxType: "income"}, false},
		{"loan_account", sample{AccType: "LOAN"}, true},
		{"investment_account", sample{AccType: "INVESTMENT"}, false},
		{"never_frequency", sample{Frequency: "NEVER"}, true},
		{"hourly_frequency", sample{Frequency: "HOURLY"}, false},
		{"iso_date", sample{Date: "2024-02-29"}, true},
		{"impossible_date", sample{Date: "2023-02-29"}, false},
		{"lao", sample{Language: "LA"}, true},
		{"french", sample{Language: "FR"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
