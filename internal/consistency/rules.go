package consistency

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Primary document keys, in order of preference.
const (
	PrimaryLetterOfCredit = "letter_of_credit"
	PrimaryShort          = "lc"
)

// presentation is a DocumentSet with its primary document resolved and its
// keys in a fixed order.
type presentation struct {
	docs       DocumentSet
	primaryKey string
	primary    Document
	names      []string
}

func newPresentation(docs DocumentSet) presentation {
	p := presentation{docs: docs, primary: Document{}}
	for _, k := range []string{PrimaryLetterOfCredit, PrimaryShort} {
		if d, ok := docs[k]; ok && d != nil {
			p.primaryKey, p.primary = k, d
			break
		}
	}
	for name := range docs {
		p.names = append(p.names, name)
	}
	slices.Sort(p.names)
	return p
}

// others yields every document except the primary, in key order.
func (p presentation) others(yield func(string, Document) bool) {
	for _, name := range p.names {
		if name == p.primaryKey {
			continue
		}
		if !yield(name, p.docs[name]) {
			return
		}
	}
}

type rule func(p presentation) []Check

var rules = []rule{
	dateRules,
	amountRules,
	partyRules,
	requiredDocumentRules,
	shipmentRules,
	numberRules,
}

func dateRules(p presentation) []Check {
	var checks []Check
	issue, hasIssue := parseDate(p.primary.text("date", "lc_issue_date"))
	expiry, hasExpiry := parseDate(p.primary.text("expiry_date", "lc_expiry_date"))
	if hasIssue && hasExpiry {
		ok := expiry.After(issue)
		verb := "is after"
		if !ok {
			verb = "is NOT after"
		}
		checks = append(checks, Check{
			RuleID:        "DATE_001",
			RuleName:      "L/C expiry after issue date",
			Severity:      SeverityError,
			Passed:        ok,
			Message:       fmt.Sprintf("Expiry %s %s issue %s", expiry.Format(displayDate), verb, issue.Format(displayDate)),
			FieldKeys:     []string{"date", "expiry_date"},
			DocumentTypes: []string{p.primaryKey},
		})
	}

	shipment, hasShipment := parseDate(p.primary.text("latest_shipment_date"))
	if hasShipment && hasExpiry {
		ok := !shipment.After(expiry)
		verb := "is before"
		if !ok {
			verb = "is AFTER"
		}
		checks = append(checks, Check{
			RuleID:        "DATE_002",
			RuleName:      "Shipment date before L/C expiry",
			Severity:      SeverityError,
			Passed:        ok,
			Message:       fmt.Sprintf("Shipment %s %s expiry %s", shipment.Format(displayDate), verb, expiry.Format(displayDate)),
			FieldKeys:     []string{"latest_shipment_date", "expiry_date"},
			DocumentTypes: []string{p.primaryKey},
		})
	}

	if !hasShipment {
		return checks
	}
	for name, doc := range p.others {
		onBoard, ok := parseDate(doc.text("on_board_date"))
		if !ok {
			continue
		}
		checks = append(checks, Check{
			RuleID:        "DATE_003",
			RuleName:      fmt.Sprintf("On-board date (%s) before latest shipment", name),
			Severity:      SeverityError,
			Passed:        !onBoard.After(shipment),
			Message:       fmt.Sprintf("On-board %s vs latest shipment %s", onBoard.Format(displayDate), shipment.Format(displayDate)),
			FieldKeys:     []string{"on_board_date", "latest_shipment_date"},
			DocumentTypes: []string{name, p.primaryKey},
		})
	}
	return checks
}

func amountRules(p presentation) []Check {
	limit, ok := parseAmount(p.primary.first("amount_in_figures"))
	if !ok {
		return nil
	}
	tolerance, _ := parseAmount(p.primary.first("percentage_tolerance"))
	maxAllowed := limit * (1 + tolerance/100)

	var checks []Check
	for name, doc := range p.others {
		if !strings.Contains(strings.ToLower(name), "invoice") {
			continue
		}
		amount, ok := parseAmount(doc.first("amount_in_figures", "invoice_amount"))
		if !ok {
			continue
		}
		checks = append(checks, Check{
			RuleID:        "AMT_001",
			RuleName:      fmt.Sprintf("Invoice amount (%s) within L/C limit", name),
			Severity:      SeverityError,
			Passed:        amount <= maxAllowed,
			Message:       fmt.Sprintf("Invoice: %.2f, L/C max: %.2f", amount, maxAllowed),
			FieldKeys:     []string{"amount_in_figures"},
			DocumentTypes: []string{name, p.primaryKey},
			ExpectedValue: fmt.Sprintf("<= %.2f", maxAllowed),
			ActualValue:   fmt.Sprintf("%.2f", amount),
		})
	}
	return checks
}

func partyRules(p presentation) []Check {
	want := strings.ToLower(p.primary.text("beneficiary_name"))
	if want == "" {
		return nil
	}
	var checks []Check
	for name, doc := range p.others {
		got := strings.ToLower(doc.text("beneficiary_name", "beneficiary"))
		if got == "" {
			continue
		}
		checks = append(checks, Check{
			RuleID:        "PARTY_001",
			RuleName:      fmt.Sprintf("Beneficiary name consistency (%s)", name),
			Severity:      SeverityWarning,
			Passed:        fuzzyMatch(want, got),
			Message:       fmt.Sprintf("L/C: '%s' vs %s: '%s'", clip(want, 50), name, clip(got, 50)),
			FieldKeys:     []string{"beneficiary_name"},
			DocumentTypes: []string{name, p.primaryKey},
		})
	}
	return checks
}

func shipmentRules(p presentation) []Check {
	want := strings.ToLower(p.primary.text("port_loading", "port_of_loading"))
	if want == "" {
		return nil
	}
	var checks []Check
	for name, doc := range p.others {
		got := strings.ToLower(doc.text("port_loading", "port_of_loading"))
		if got == "" {
			continue
		}
		checks = append(checks, Check{
			RuleID:        "SHIP_001",
			RuleName:      fmt.Sprintf("Port of loading consistency (%s)", name),
			Severity:      SeverityWarning,
			Passed:        fuzzyMatch(want, got),
			Message:       fmt.Sprintf("L/C: '%s' vs %s: '%s'", want, name, got),
			FieldKeys:     []string{"port_loading"},
			DocumentTypes: []string{name, p.primaryKey},
		})
	}
	return checks
}

// requiredDocuments maps a checkbox on the credit to the keyword an uploaded
// document type must contain.
var requiredDocuments = []struct {
	field   string
	docType string
}{
	{"bills_of_lading", "bill_of_lading"},
	{"commercial_invoice", "commercial_invoice"},
	{"certificate_of_origin", "certificate_of_origin"},
	{"insurance_certificate", "insurance_certificate"},
	{"packing_list", "packing_list"},
	{"inspection_certificate", "inspection_certificate"},
}

func requiredDocumentRules(p presentation) []Check {
	var checks []Check
	title := cases.Title(language.English)
	for _, rd := range requiredDocuments {
		if !flagged(p.primary[rd.field]) {
			continue
		}
		present := slices.ContainsFunc(p.names, func(name string) bool {
			return strings.Contains(strings.ToLower(name), rd.docType)
		})
		status := "MISSING"
		if present {
			status = "Present"
		}
		checks = append(checks, Check{
			RuleID:    "DOC_" + strings.ToUpper(rd.field),
			RuleName:  "Required document: " + title.String(strings.ReplaceAll(rd.field, "_", " ")),
			Severity:  SeverityWarning,
			Passed:    present,
			Message:   status + " in uploaded documents",
			FieldKeys: []string{rd.field},
		})
	}
	return checks
}

func numberRules(p presentation) []Check {
	var (
		carriers []string
		found    []string
		distinct = map[string]struct{}{}
	)
	for _, name := range p.names {
		num := p.docs[name].text("lc_number")
		if num == "" {
			continue
		}
		carriers = append(carriers, name)
		found = append(found, name+"="+num)
		distinct[num] = struct{}{}
	}
	if len(carriers) < 2 {
		return nil
	}
	return []Check{{
		RuleID:        "NUM_001",
		RuleName:      "L/C number consistency across documents",
		Severity:      SeverityError,
		Passed:        len(distinct) == 1,
		Message:       "L/C numbers found: " + strings.Join(found, ", "),
		FieldKeys:     []string{"lc_number"},
		DocumentTypes: carriers,
	}}
}
