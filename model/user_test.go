package model

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	user := &User{Username: "user1"}
	if err := user.SetPassword("password123"); err != nil {
		t.Fatal(err)
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password must not be stored in the clear")
	}
	if !user.CheckPassword("password123") {
		t.Error("correct password rejected")
	}
	if user.CheckPassword("password124") {
		t.Error("wrong password accepted")
	}
	if user.CheckPassword("") {
		t.Error("empty password accepted")
	}
}
