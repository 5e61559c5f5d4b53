package tokens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"hotelguru/internal/domain"
)

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode reads the subject and roles of an access token. Only the payload
// segment is read: the header and the signature are NOT checked, so the
// claims drive rendering and navigation only and must never feed a decision
// the backend is expected to trust.
func Decode(accessToken string) (domain.Claims, error) {
	if accessToken == "" {
		return domain.Claims{}, fmt.Errorf("%w: empty token", domain.ErrMalformedToken)
	}

	segments := strings.Split(accessToken, ".")
	if len(segments) < 2 {
		return domain.Claims{}, fmt.Errorf("%w: no payload segment", domain.ErrMalformedToken)
	}

	payload, err := parser.DecodeSegment(segments[1])
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var claims jwt.MapClaims
	if err := dec.Decode(&claims); err != nil {
		return domain.Claims{}, fmt.Errorf("%w: payload: %v", domain.ErrMalformedToken, err)
	}
	if claims == nil {
		return domain.Claims{}, fmt.Errorf("%w: empty payload", domain.ErrMalformedToken)
	}

	return domain.Claims{
		Subject: subject(claims["sub"]),
		Roles:   roles(claims["roles"]),
	}, nil
}

func subject(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return ""
	}
}

func roles(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, r := range list {
		if name, ok := r.(string); ok {
			out = append(out, name)
		}
	}
	return out
}
