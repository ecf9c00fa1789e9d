package http

import "testing"

func TestWalletRegexp(t *testing.T) {
	valid := []string{
		"0x1111111111111111111111111111111111111111",
		"0xabcdef0123456789abcdef0123456789abcdef01",
	}
	for _, v := range valid {
		if !reWallet.MatchString(v) {
			t.Errorf("%s should be valid", v)
		}
	}

	invalid := []string{
		"",
		"0x",
		"1111111111111111111111111111111111111111",             // no prefix
		"0xABCDEF0123456789ABCDEF0123456789ABCDEF01",           // uppercase
		"0x111111111111111111111111111111111111111",            // 39 chars
		"0x11111111111111111111111111111111111111111",          // 41 chars
		"0xgggggggggggggggggggggggggggggggggggggggg",           // not hex
		" 0x1111111111111111111111111111111111111111",          // leading space
		"0x1111111111111111111111111111111111111111\nmalicous", // trailing garbage
	}
	for _, v := range invalid {
		if reWallet.MatchString(v) {
			t.Errorf("%q should be invalid", v)
		}
	}
}

func TestValidator_WalletTag(t *testing.T) {
	type payload struct {
		Wallet string `validate:"required,wallet"`
	}
	cv := NewValidator()

	if err := cv.Validate(&payload{Wallet: "0x1111111111111111111111111111111111111111"}); err != nil {
		t.Fatalf("valid wallet rejected: %v", err)
	}
	err := cv.Validate(&payload{Wallet: "nope"})
	if err == nil {
		t.Fatal("invalid wallet accepted")
	}
	fields := ToFieldErrors(err)
	if len(fields) != 1 || fields[0].Field != "Wallet" {
		t.Fatalf("fields=%+v", fields)
	}
}
