package validate

import (
	"strings"
	"testing"
)

type phoneVal struct {
	Phone string `json:"phone" validate:"required,phoneph"`
}

func TestPhonePH(t *testing.T) {
	valid := []string{"09171234567", "09991234567", "+639171234567"}
	for _, p := range valid {
		if err := Check(phoneVal{p}); err != nil {
			t.Errorf("%q must be accepted: %v", p, err)
		}
	}

	invalid := []string{"12345", "0917123456", "091712345678", "+63171234567", "9171234567", "0917-123-4567"}
	for _, p := range invalid {
		if err := Check(phoneVal{p}); err == nil {
			t.Errorf("%q must be rejected", p)
		}
	}
}

func TestPhonePHMessage(t *testing.T) {
	err := Check(phoneVal{"12345"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "09xxxxxxxxx") {
		t.Fatalf("the message must hint at the expected format, got %q", err)
	}
}

type refVal struct {
	GcashReference string `json:"gcashReference" validate:"required,gcashref"`
}

func TestGcashRef(t *testing.T) {
	if err := Check(refVal{"1234567890123"}); err != nil {
		t.Fatalf("a 13-digit reference must be accepted: %v", err)
	}

	invalid := []string{"123", "12345678901234", "123456789012a", ""}
	for _, r := range invalid {
		if err := Check(refVal{r}); err == nil {
			t.Errorf("%q must be rejected", r)
		}
	}
}

func TestGcashRefMessage(t *testing.T) {
	err := Check(refVal{"123"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "gcashReference must be 13 digits" {
		t.Fatalf("unexpected message %q", got)
	}
}

type multiVal struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phoneph"`
}

func TestCheckFields(t *testing.T) {
	fields, order := CheckFields(multiVal{Email: "not-an-email"})
	if fields == nil {
		t.Fatal("expected field errors")
	}

	for _, f := range []string{"name", "email", "phone"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("missing message for %q", f)
		}
	}

	// Fields report in declaration order so callers can focus the first.
	if len(order) != 3 || order[0] != "name" {
		t.Fatalf("expected name first, got %v", order)
	}
}

func TestCheckFieldsValid(t *testing.T) {
	fields, order := CheckFields(multiVal{
		Name:  "Maria",
		Email: "maria@example.com",
		Phone: "09171234567",
	})
	if fields != nil || order != nil {
		t.Fatalf("expected no errors, got %v", fields)
	}
}

func TestCheckID(t *testing.T) {
	if err := CheckID(GenerateID()); err != nil {
		t.Fatal("generated IDs must validate")
	}
	if err := CheckID("not-a-uuid"); err == nil {
		t.Fatal("malformed IDs must be rejected")
	}
}
