package checkout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Field string

const (
	FieldName      Field = "name"
	FieldPhone     Field = "phone"
	FieldEmail     Field = "email"
	FieldAddress   Field = "address"
	FieldSlot      Field = "deliverySlot"
	FieldAgreement Field = "agreement"
	FieldCart      Field = "cart"
)

var allFields = []Field{
	FieldName, FieldPhone, FieldEmail, FieldAddress,
	FieldSlot, FieldAgreement, FieldCart,
}

var (
	// punctuation commonly typed into phone numbers, stripped before matching
	phoneCleaner = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
)

func (s *Session) validateField(f Field) string {
	switch f {
	case FieldName:
		if utf8.RuneCountInString(strings.TrimSpace(s.form.Name)) < 2 {
			return "name must be at least 2 characters"
		}
	case FieldPhone:
		if !phonePattern.MatchString(phoneCleaner.Replace(s.form.Phone)) {
			return "phone must be 10-15 digits"
		}
	case FieldEmail:
		if s.form.Email != "" && !emailPattern.MatchString(s.form.Email) {
			return "email address is malformed"
		}
	case FieldAddress:
		if utf8.RuneCountInString(strings.TrimSpace(s.form.Address)) < 5 {
			return "address must be at least 5 characters"
		}
	case FieldSlot:
		if s.form.DeliverySlot == "" {
			return "delivery time must be chosen"
		}
	case FieldAgreement:
		if !s.form.Agreed {
			return "terms must be accepted"
		}
	case FieldCart:
		if s.cart.IsEmpty() {
			return "cart is empty"
		}
	}
	return ""
}

func (s *Session) validateAll() map[Field]string {
	errs := make(map[Field]string)
	for _, f := range allFields {
		if msg := s.validateField(f); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}
