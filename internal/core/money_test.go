package core

import "testing"

func TestParseAmountInput(t *testing.T) {
	cases := []struct {
		in  string
		out Amount
		ok  bool
	}{
		{"1 000 000", 1000000, true},
		{"250000", 250000, true},
		{" 5 000 ", 5000, true},
		{"1 000", 1000, true},
		{"1 500", 1500, true},
		{"0", 0, false},
		{"-100", 0, false},
		{"12.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmountInput(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestGroupDigits(t *testing.T) {
	cases := map[Amount]string{
		0:       "0",
		999:     "999",
		1000:    "1 000",
		1000000: "1 000 000",
		1234567: "1 234 567",
	}
	for in, want := range cases {
		if got := GroupDigits(in); got != want {
			t.Fatalf("GroupDigits(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestGroupDigitsRoundTrip(t *testing.T) {
	for _, a := range []Amount{1, 42, 5000, 1000000, 987654321} {
		got, err := ParseAmountInput(GroupDigits(a))
		if err != nil || got != a {
			t.Fatalf("round trip of %d gave %d (err=%v)", a, got, err)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(1500000, UZS); got != "1 500 000 so'm" {
		t.Fatalf("unexpected UZS format %q", got)
	}
	if got := FormatAmount(2500, USD); got != "$2 500" {
		t.Fatalf("unexpected USD format %q", got)
	}
}
