package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tradeverify/internal/consistency"
	"tradeverify/internal/verification"
)

type HSCodeInput struct {
	HSCode string `json:"hs_code" jsonschema:"the Harmonized System code, dots and spaces allowed"`
}

type SwiftInput struct {
	SwiftCode string `json:"swift_code" jsonschema:"the SWIFT/BIC code as written on the document"`
}

type SanctionsInput struct {
	PartyName string `json:"party_name" jsonschema:"the party to screen against sanctions lists"`
}

type ShipmentInput struct {
	TrackingNumber string `json:"tracking_number" jsonschema:"container number or bill of lading number"`
}

type CompanyInput struct {
	CompanyName string `json:"company_name" jsonschema:"the company name"`
	Country     string `json:"country,omitempty" jsonschema:"the company's country, if known"`
}

type PortInput struct {
	PortName    string `json:"port_name" jsonschema:"port phrase as written, e.g. 'Tripoli and/or Khoms, Libya'"`
	Country     string `json:"country,omitempty" jsonschema:"document-level country name hint"`
	CountryCode string `json:"country_code,omitempty" jsonschema:"document-level ISO country code hint"`
}

type BankInput struct {
	BankName    string `json:"bank_name" jsonschema:"the bank name"`
	CountryCode string `json:"country_code,omitempty" jsonschema:"ISO country code to narrow the search"`
}

type DeepResearchInput struct {
	Query   string `json:"query" jsonschema:"free-form verification question"`
	Context string `json:"context,omitempty" jsonschema:"extra context such as the L/C number or parties"`
}

type ValidateInput struct {
	Documents consistency.DocumentSet `json:"documents" jsonschema:"document type to extracted fields, e.g. letter_of_credit, commercial_invoice"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_hs_code",
		Description: "Validate an HS code and describe the goods it classifies",
	}, s.handleHSCode)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_swift_code",
		Description: "Verify a SWIFT/BIC code, repairing common typos",
	}, s.handleSwift)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_sanctions",
		Description: "Screen a party against OFAC, EU and UN sanctions lists",
	}, s.handleSanctions)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "track_shipment",
		Description: "Check a container or B/L number and return tracking links",
	}, s.handleShipment)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_company",
		Description: "Check that a company exists and has no specific fraud record",
	}, s.handleCompany)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_port",
		Description: "Resolve a port phrase to UN/LOCODE locations",
	}, s.handlePort)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "verify_bank_by_name",
		Description: "Find a bank by name and list its SWIFT branches",
	}, s.handleBank)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "deep_research_verify",
		Description: "Answer a free-form trade finance verification question",
	}, s.handleDeepResearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_documents",
		Description: "Cross-check dates, amounts, parties and ports across L/C documents",
	}, s.handleValidate)
}

func (s *Server) verify(ctx context.Context, kind verification.Kind, value string, context map[string]string) (*mcp.CallToolResult, verification.Result, error) {
	res, err := s.ports.Verifier.Verify(ctx, verification.Request{Kind: kind, Value: value, Context: context})
	if err != nil {
		return nil, verification.Result{}, err
	}
	return nil, res, nil
}

func (s *Server) handleHSCode(ctx context.Context, _ *mcp.CallToolRequest, in HSCodeInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindHSCode, in.HSCode, nil)
}

func (s *Server) handleSwift(ctx context.Context, _ *mcp.CallToolRequest, in SwiftInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindSwift, in.SwiftCode, nil)
}

func (s *Server) handleSanctions(ctx context.Context, _ *mcp.CallToolRequest, in SanctionsInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindSanctions, in.PartyName, nil)
}

func (s *Server) handleShipment(ctx context.Context, _ *mcp.CallToolRequest, in ShipmentInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindShipment, in.TrackingNumber, nil)
}

func (s *Server) handleCompany(ctx context.Context, _ *mcp.CallToolRequest, in CompanyInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindCompany, in.CompanyName, compact(map[string]string{
		verification.ContextCountry: in.Country,
	}))
}

func (s *Server) handlePort(ctx context.Context, _ *mcp.CallToolRequest, in PortInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindPort, in.PortName, compact(map[string]string{
		verification.ContextCountry:     in.Country,
		verification.ContextCountryCode: in.CountryCode,
	}))
}

func (s *Server) handleBank(ctx context.Context, _ *mcp.CallToolRequest, in BankInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindBankName, in.BankName, compact(map[string]string{
		verification.ContextCountryCode: in.CountryCode,
	}))
}

func (s *Server) handleDeepResearch(ctx context.Context, _ *mcp.CallToolRequest, in DeepResearchInput) (*mcp.CallToolResult, verification.Result, error) {
	return s.verify(ctx, verification.KindDeepResearch, in.Query, compact(map[string]string{
		verification.ContextResearch: in.Context,
	}))
}

func (s *Server) handleValidate(ctx context.Context, _ *mcp.CallToolRequest, in ValidateInput) (*mcp.CallToolResult, consistency.Report, error) {
	return nil, s.ports.Validator.Validate(ctx, in.Documents), nil
}

// compact drops empty values so they do not reach cache keys.
func compact(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
