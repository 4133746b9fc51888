package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EmployeeRequest is the body of POST /employees/ and PUT /employees/:id/.
// Pointers tell a missing key (or null) apart from an empty value. id and
// date_joined are server assigned and never read from the body.
type EmployeeRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
}

// UnmarshalJSON accepts a JSON number wherever a string is expected and
// keeps its literal text, so {"name": 123} reads as "123".
func (r *EmployeeRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       json.RawMessage `json:"name"`
		Email      json.RawMessage `json:"email"`
		Department json.RawMessage `json:"department"`
		Role       json.RawMessage `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out EmployeeRequest
	var err error
	if out.Name, err = textField("name", raw.Name); err != nil {
		return err
	}
	if out.Email, err = textField("email", raw.Email); err != nil {
		return err
	}
	if out.Department, err = textField("department", raw.Department); err != nil {
		return err
	}
	if out.Role, err = textField("role", raw.Role); err != nil {
		return err
	}

	*r = out
	return nil
}

func textField(field string, raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case c == '-' || (c >= '0' && c <= '9'):
		s := string(raw)
		return &s, nil
	default:
		return nil, fmt.Errorf("json: %s must be a string", field)
	}
}

type EmployeeResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
	DateJoined string  `json:"date_joined"`
}

type EmployeeListResponse struct {
	Count       int64
	TotalPages  int
	CurrentPage int
	Results     []EmployeeResponse
}
