package domain

import (
	"errors"
	"testing"
)

func TestDealValidate(t *testing.T) {
	valid := Deal{
		OwnerID:     "user-1",
		SponsorName: "Acme",
		AmountCents: 100000,
		Stage:       StageProspect,
	}

	tests := []struct {
		name   string
		mutate func(*Deal)
		wantOK bool
	}{
		{"valid deal", func(d *Deal) {}, true},
		{"zero amount is fine", func(d *Deal) { d.AmountCents = 0 }, true},
		{"missing owner", func(d *Deal) { d.OwnerID = "" }, false},
		{"missing sponsor", func(d *Deal) { d.SponsorName = "" }, false},
		{"negative amount", func(d *Deal) { d.AmountCents = -1 }, false},
		{"empty stage", func(d *Deal) { d.Stage = "" }, false},
		{"made-up stage", func(d *Deal) { d.Stage = "limbo" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.wantOK && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
}
