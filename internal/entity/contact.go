package entity

import "github.com/go-playground/validator/v10"

// ContactRule accepts "+91" followed by exactly ten digits.
const ContactRule = "required,e164,startswith=+91,len=13"

// Contact is an emergency phone number in international format, e.g.
// "+919876543210". Build it with phone.Format.
type Contact string

func (c Contact) String() string {
	return string(c)
}

func (c Contact) Validate(v *validator.Validate) error {
	return v.Var(string(c), ContactRule)
}
