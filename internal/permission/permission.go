// Package permission parses "action:entity:access[,access...]" strings, e.g.
// "update:post:own" or "read:post:own,any".
package permission

import (
	"errors"
	"fmt"
	"strings"

	"wicki/internal/domain"
)

var ErrInvalid = errors.New("invalid permission string")

type Permission struct {
	Action string
	Entity string
	Access []string
}

// Parse decodes s. Every part must be non-empty and every access scope must
// be "own" or "any". Duplicate scopes are collapsed.
func Parse(s string) (Permission, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Permission{}, fmt.Errorf("%w: %q: want action:entity:access", ErrInvalid, s)
	}
	p := Permission{
		Action: strings.TrimSpace(parts[0]),
		Entity: strings.TrimSpace(parts[1]),
	}
	if p.Action == "" || p.Entity == "" {
		return Permission{}, fmt.Errorf("%w: %q: empty action or entity", ErrInvalid, s)
	}
	seen := map[string]bool{}
	for _, a := range strings.Split(parts[2], ",") {
		a = strings.TrimSpace(a)
		switch a {
		case domain.AccessOwn, domain.AccessAny:
		default:
			return Permission{}, fmt.Errorf("%w: %q: unknown access %q", ErrInvalid, s, a)
		}
		if !seen[a] {
			seen[a] = true
			p.Access = append(p.Access, a)
		}
	}
	return p, nil
}

// MustParse is Parse for permission literals known at compile time.
func MustParse(s string) Permission {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Permission) String() string {
	return p.Action + ":" + p.Entity + ":" + strings.Join(p.Access, ",")
}

// ForOwner returns the permission needed to act on an entity: "own,any"
// when the caller owns it, "any" otherwise.
func ForOwner(action, entity string, isOwner bool) Permission {
	if isOwner {
		return Permission{Action: action, Entity: entity, Access: []string{domain.AccessOwn, domain.AccessAny}}
	}
	return Permission{Action: action, Entity: entity, Access: []string{domain.AccessAny}}
}
