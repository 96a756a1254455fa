package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utafrali/SupplierGo/pkg/middleware"
)

func TestDefaultPolicies_Allows(t *testing.T) {
	policies := DefaultPolicies()

	tests := []struct {
		policy string
		claims map[string]string
		want   bool
	}{
		{PolicyDeleteSupplier, map[string]string{"DeleteSupplier": "true"}, true},
		{PolicyDeleteSupplier, map[string]string{"DeleteSupplier": ""}, true},
		{PolicyDeleteSupplier, map[string]string{"UpdateSupplier": "true"}, false},
		{PolicyUpdateSupplier, map[string]string{"UpdateSupplier": "x"}, true},
		{PolicyUpdateSupplier, map[string]string{"UpdateSupplierPolicy": "x"}, false},
		{PolicyCanAddClaim, map[string]string{"AddClaim": "x"}, true},
		{PolicyCanAddClaim, nil, false},
		{"Unknown", map[string]string{"Unknown": "x"}, false},
	}
	for _, tt := range tests {
		caller := &middleware.Claims{UserID: "u", Claims: tt.claims}
		assert.Equal(t, tt.want, policies.Allows(tt.policy, caller), "%s with %v", tt.policy, tt.claims)
	}
}

func TestPolicySet_AllowsNilCaller(t *testing.T) {
	assert.False(t, DefaultPolicies().Allows(PolicyCanAddClaim, nil))
}

func TestPolicySet_Names(t *testing.T) {
	assert.Equal(t, []string{"CanAddClaim", "DeleteSupplier", "UpdateSupplierPolicy"}, DefaultPolicies().Names())
}

func TestNewPolicySet_LaterOverrides(t *testing.T) {
	s := NewPolicySet(
		Policy{Name: "P", RequiredClaim: "A"},
		Policy{Name: "P", RequiredClaim: "B"},
	)
	assert.False(t, s.Allows("P", &middleware.Claims{Claims: map[string]string{"A": "1"}}))
	assert.True(t, s.Allows("P", &middleware.Claims{Claims: map[string]string{"B": "1"}}))
}

func TestPolicySet_Require(t *testing.T) {
	h := DefaultPolicies().Require(PolicyDeleteSupplier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(c *middleware.Claims) int {
		req := httptest.NewRequest(http.MethodDelete, "/supplier/x", nil)
		req = req.WithContext(middleware.WithClaims(req.Context(), c))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusForbidden, serve(&middleware.Claims{UserID: "u"}))
	assert.Equal(t, http.StatusNoContent, serve(&middleware.Claims{UserID: "u", Claims: map[string]string{"DeleteSupplier": "1"}}))
}
