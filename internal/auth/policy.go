package auth

import (
	"net/http"
	"sort"

	"github.com/utafrali/SupplierGo/pkg/middleware"
)

// Policy names referenced by the router.
const (
	PolicyDeleteSupplier = "DeleteSupplier"
	PolicyUpdateSupplier = "UpdateSupplierPolicy"
	PolicyCanAddClaim    = "CanAddClaim"
)

// Claim types the default policies require.
const (
	ClaimDeleteSupplier = "DeleteSupplier"
	ClaimUpdateSupplier = "UpdateSupplier"
	ClaimAddClaim       = "AddClaim"
)

// Policy grants access to callers holding a claim of RequiredClaim, whatever
// its value.
type Policy struct {
	Name          string
	RequiredClaim string
}

// PolicySet is an immutable name -> policy table, built once at startup.
type PolicySet struct {
	required map[string]string
}

// NewPolicySet builds a set from policies. A later policy with the same name
// replaces an earlier one.
func NewPolicySet(policies ...Policy) *PolicySet {
	s := &PolicySet{required: make(map[string]string, len(policies))}
	for _, p := range policies {
		s.required[p.Name] = p.RequiredClaim
	}
	return s
}

// DefaultPolicies returns the policies guarding supplier mutation and claim
// grants.
func DefaultPolicies() *PolicySet {
	return NewPolicySet(
		Policy{Name: PolicyDeleteSupplier, RequiredClaim: ClaimDeleteSupplier},
		Policy{Name: PolicyUpdateSupplier, RequiredClaim: ClaimUpdateSupplier},
		Policy{Name: PolicyCanAddClaim, RequiredClaim: ClaimAddClaim},
	)
}

// Allows reports whether the caller satisfies the named policy. Unknown
// policies and nil callers deny.
func (s *PolicySet) Allows(name string, caller *middleware.Claims) bool {
	required, ok := s.required[name]
	if !ok {
		return false
	}
	return caller.HasClaim(required)
}

// Names lists the configured policy names in sorted order.
func (s *PolicySet) Names() []string {
	names := make([]string, 0, len(s.required))
	for n := range s.required {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Require returns middleware enforcing the named policy. Mount after
// middleware.Auth.
func (s *PolicySet) Require(name string) func(http.Handler) http.Handler {
	return middleware.Authorize(func(c *middleware.Claims) bool {
		return s.Allows(name, c)
	})
}
