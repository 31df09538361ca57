package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Signup struct {
	Email    string `validate:"required,email"       json:"email"`
	Password string `validate:"required,min=8"       json:"password"`
}

func (s Signup) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", s.Email).Str("password", "***")
}

func (s Signup) MarshalJSON() ([]byte, error) {
	s.Password = "***"
	type S Signup
	return json.Marshal(S(s))
}

type Login struct {
	Email    string `validate:"required,email" json:"email"`
	Password string `validate:"required"       json:"password"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***")
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}
