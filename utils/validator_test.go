package utils

import "testing"

type sampleRequest struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,pwdmin"`
	Confirm  string `validate:"required,eqfield=Password"`
	Wallet   string `validate:"wallet"`
}

func TestValidateStructOK(t *testing.T) {
	req := sampleRequest{
		Username: "eco_user1",
		Email:    "user@example.com",
		Password: "secret12",
		Confirm:  "secret12",
		Wallet:   "0x52908400098527886E0F7030069857D2E4169EE7",
	}
	if err := ValidateStruct(&req); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateStructRejects(t *testing.T) {
	cases := []sampleRequest{
		{Username: "x", Email: "user@example.com", Password: "secret12", Confirm: "secret12"},
		{Username: "eco_user1", Email: "not-an-email", Password: "secret12", Confirm: "secret12"},
		{Username: "eco_user1", Email: "user@example.com", Password: "123", Confirm: "123"},
		{Username: "eco_user1", Email: "user@example.com", Password: "secret12", Confirm: "different"},
		{Username: "eco_user1", Email: "user@example.com", Password: "secret12", Confirm: "secret12", Wallet: "52908400098527886E0F7030069857D2E4169EE7"},
	}
	for i, c := range cases {
		if err := ValidateStruct(&c); err == nil {
			t.Fatalf("case %d: expected validation error, got nil", i)
		}
	}
}
