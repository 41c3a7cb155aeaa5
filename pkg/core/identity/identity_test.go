package identity

import "testing"

func TestSubsidiaryUUIDDeterministic(t *testing.T) {
	a := SubsidiaryUUID("0001234567", "ABC Holdings Ltd.", "China")
	b := SubsidiaryUUID("0001234567", "ABC Holdings Ltd.", "China")
	if a != b {
		t.Errorf("same inputs produced different keys: %s vs %s", a, b)
	}

	c := SubsidiaryUUID("0001234567", "ABC Holdings Ltd.", "Hong Kong")
	if a == c {
		t.Errorf("different jurisdictions must not collide: %s", a)
	}

	d := SubsidiaryUUID("0007654321", "ABC Holdings Ltd.", "China")
	if a == d {
		t.Errorf("different parents must not collide: %s", a)
	}
}

func TestSubsidiaryUUIDIsV5(t *testing.T) {
	key := SubsidiaryUUID("0001234567", "ABC Holdings Ltd.", "China")
	if len(key) != 36 {
		t.Fatalf("unexpected key format: %q", key)
	}
	// Version nibble is the first character of the third group.
	if key[14] != '5' {
		t.Errorf("expected a name-based v5 UUID, got version %c in %s", key[14], key)
	}
}

func TestNormalizeSubsidiaryName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  ABC   Holdings\tLtd.  ", "ABC Holdings Ltd."},
		{"Shanghai Tech\n Co., Ltd.", "Shanghai Tech Co., Ltd."},
		{"Plain Name Inc.", "Plain Name Inc."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeSubsidiaryName(tt.in); got != tt.want {
			t.Errorf("NormalizeSubsidiaryName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOwnershipPct(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"Percent sign", "84.32% owned", ptr(84.32)},
		{"Whole percent", "100%", ptr(100)},
		{"Spelled out", "51 percent", ptr(51)},
		{"Wholly owned", "Wholly-owned subsidiary", ptr(100)},
		{"Wholly plain", "wholly owned", ptr(100)},
		{"Numeric beats wholly", "wholly, but 80% after dilution", ptr(80)},
		{"Footnote reference", "see note 4", nil},
		{"Empty", "", nil},
		{"Bare number is not ownership", "42", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OwnershipPct(tt.in)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("OwnershipPct(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("OwnershipPct(%q) = %v, want %v", tt.in, *got, *tt.want)
			}
		})
	}
}

func TestAddressIDStable(t *testing.T) {
	a := AddressID("0001234567", "Unit 12, 88 Queensway, Hong Kong")
	b := AddressID("0001234567", "Unit 12, 88 Queensway, Hong Kong")
	if a != b {
		t.Errorf("same (entity, text) produced different ids")
	}

	// Formatting differences are intentionally distinct rows.
	c := AddressID("0001234567", "Unit 12 88 Queensway Hong Kong")
	if a == c {
		t.Errorf("formatting variants must stay distinct")
	}
}
