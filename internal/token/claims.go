package token

import (
	"encoding/json"
	"fmt"
)

// Claims is the payload of a signed token. Subject and ExpiresAt are
// mandatory on every token; Username is set on access tokens only. Claims the
// codec does not know about survive an encode/decode round trip untouched in
// Extra.
type Claims struct {
	Subject   int64
	Username  string
	ExpiresAt int64
	Extra     map[string]json.RawMessage
}

// MarshalJSON flattens the known claims and Extra into a single JSON object.
func (c Claims) MarshalJSON() ([]byte, error) {
	obj := make(map[string]json.RawMessage, len(c.Extra)+3)
	for name, value := range c.Extra {
		obj[name] = value
	}

	sub, err := json.Marshal(c.Subject)
	if err != nil {
		return nil, err
	}
	obj["sub"] = sub

	if c.Username != "" {
		username, err := json.Marshal(c.Username)
		if err != nil {
			return nil, err
		}
		obj["username"] = username
	}

	exp, err := json.Marshal(c.ExpiresAt)
	if err != nil {
		return nil, err
	}
	obj["exp"] = exp

	return json.Marshal(obj)
}

// UnmarshalJSON splits a JSON object into the known claims and Extra.
// Missing or wrongly typed sub/exp claims are rejected: a token without an
// expiry is malformed, never eternal.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	sub, ok := obj["sub"]
	if !ok {
		return fmt.Errorf("missing sub claim")
	}
	if err := json.Unmarshal(sub, &c.Subject); err != nil {
		return fmt.Errorf("sub claim is not an integer: %w", err)
	}
	delete(obj, "sub")

	if username, ok := obj["username"]; ok {
		if err := json.Unmarshal(username, &c.Username); err != nil {
			return fmt.Errorf("username claim is not a string: %w", err)
		}
		delete(obj, "username")
	}

	exp, ok := obj["exp"]
	if !ok {
		return fmt.Errorf("missing exp claim")
	}
	if err := json.Unmarshal(exp, &c.ExpiresAt); err != nil {
		return fmt.Errorf("exp claim is not an integer: %w", err)
	}
	delete(obj, "exp")

	if len(obj) > 0 {
		c.Extra = obj
	}

	return nil
}
