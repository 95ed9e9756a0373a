// Package contract holds reusable checks that every source client must pass
// against a stubbed upstream.
package contract

import (
	"context"
	"testing"

	"tradeverify/internal/sources"
)

// ContractTest is one successful-query expectation.
type ContractTest struct {
	Name         string
	Input        string
	Options      sources.Options
	ValidateFunc func(resp *sources.Response) error
}

// ContractSuite runs ContractTests against one provider.
type ContractSuite struct {
	ProviderID string
	Provider   sources.Provider
	Tests      []ContractTest
}

func (s *ContractSuite) Run(t *testing.T) {
	t.Helper()
	if got := s.Provider.ID(); got != s.ProviderID {
		t.Fatalf("expected provider ID %s, got %s", s.ProviderID, got)
	}
	for _, test := range s.Tests {
		t.Run(test.Name, func(t *testing.T) {
			resp, err := s.Provider.Query(context.Background(), test.Input, test.Options)
			if err != nil {
				t.Fatalf("provider query failed: %v", err)
			}
			if resp == nil {
				t.Fatal("nil response without error")
			}
			if resp.Source != s.ProviderID {
				t.Errorf("expected source %s, got %s", s.ProviderID, resp.Source)
			}
			if !resp.Usable() {
				t.Error("response not usable")
			}
			if test.ValidateFunc != nil {
				if err := test.ValidateFunc(resp); err != nil {
					t.Errorf("custom validation failed: %v", err)
				}
			}
		})
	}
}

// ErrorContractTest checks that a failing upstream maps onto the taxonomy.
type ErrorContractTest struct {
	Name          string
	Provider      sources.Provider
	Input         string
	Options       sources.Options
	ExpectedError sources.ErrorCategory
}

func (ect *ErrorContractTest) Run(t *testing.T) {
	t.Helper()
	t.Run(ect.Name, func(t *testing.T) {
		resp, err := ect.Provider.Query(context.Background(), ect.Input, ect.Options)
		if err == nil {
			t.Fatalf("expected error but got response %+v", resp)
		}
		if category := sources.GetCategory(err); category != ect.ExpectedError {
			t.Errorf("expected error category %s, got %s (%v)", ect.ExpectedError, category, err)
		}
	})
}
