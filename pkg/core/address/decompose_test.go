package address

import (
	"testing"

	"corpkb/pkg/core/norm"
)

func TestDecompose(t *testing.T) {
	n := norm.NewNormalizer()

	tests := []struct {
		name string
		raw  string
		want Components
	}{
		{
			name: "City and country",
			raw:  "Unit 12, 88 Queensway, Hong Kong",
			want: Components{AddrLine: "Unit 12, 88 Queensway", Region: "Hong Kong", CountryISO3: "HKG"},
		},
		{
			name: "Locality before country",
			raw:  "190 Elgin Avenue, George Town, Cayman Islands",
			want: Components{AddrLine: "190 Elgin Avenue", Locality: "George Town", Region: "Cayman Islands", CountryISO3: "CYM"},
		},
		{
			name: "Postal code",
			raw:  "88 Keyuan Road, Pudong, 200120, China",
			want: Components{AddrLine: "88 Keyuan Road, Pudong, 200120", Region: "China", CountryISO3: "CHN", PostalCode: "200120"},
		},
		{
			name: "Unrecognized country stays in street line",
			raw:  "1 Main Street, Nowhereville",
			want: Components{AddrLine: "1 Main Street, Nowhereville"},
		},
		{
			name: "Empty",
			raw:  "  ",
			want: Components{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decompose(tt.raw, n)
			if got != tt.want {
				t.Errorf("Decompose(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}
