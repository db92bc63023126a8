package validator

import (
	"testing"

	"github.com/google/uuid"
)

type sampleRequest struct {
	ItemID    uuid.UUID `validate:"uuid_required"`
	Quantity  int       `validate:"gt=0"`
	StoreType string    `validate:"store_type"`
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     sampleRequest
		wantErr bool
	}{
		{"ok", sampleRequest{ItemID: uuid.New(), Quantity: 2, StoreType: "Kirana"}, false},
		{"empty store type allowed", sampleRequest{ItemID: uuid.New(), Quantity: 1}, false},
		{"nil uuid", sampleRequest{Quantity: 1}, true},
		{"zero quantity", sampleRequest{ItemID: uuid.New()}, true},
		{"bad store type", sampleRequest{ItemID: uuid.New(), Quantity: 1, StoreType: "Pharmacy"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(&tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
