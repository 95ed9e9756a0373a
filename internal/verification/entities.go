package verification

import (
	"context"
	"fmt"
	"strings"

	"tradeverify/internal/sources"
	"tradeverify/internal/verification/candidates"
	"tradeverify/internal/verification/links"
)

// verifyCompany treats research as authoritative: only research text can
// mark a company unverified, and only through Policy.FraudFlagged. Web search
// runs when research has nothing and can only confirm existence.
func (s *Service) verifyCompany(ctx context.Context, req Request) Result {
	company := strings.TrimSpace(req.Value)
	if tooShort(company) {
		return inputError(KindCompany, "Company name too short.")
	}
	country := req.contextValue(ContextCountry)
	run := s.newRun(KindCompany)
	names := candidates.Names(company)

	d := Details{
		"company_name": company,
		"country":      country,
		"google_maps":  links.GoogleMapsSearch(strings.TrimSpace(company + " " + country + " headquarters")),
	}

	if resp, ok := run.research(ctx, companyQuestion(company, country),
		"Corporate due diligence analyst. Be PRECISE. "+
			"Only flag fraud if you find SPECIFIC evidence against THIS company. "+
			"Generic fraud articles about the industry do NOT count."); ok {
		d["research"] = truncate(resp.Content, 800)
		d["source_urls"] = firstN(resp.Citations, 5)
		if s.policy.FraudFlagged(resp.Content) {
			d["fraud_flag"] = true
			return run.result(false, 0.75, resp.Source,
				fmt.Sprintf("SPECIFIC FRAUD EVIDENCE found for '%s'. Review required.", company), d)
		}
		return run.result(true, 0.85, resp.Source,
			fmt.Sprintf("Company '%s' verified via research.", company), d)
	}

	for _, name := range names {
		query := strings.Join(strings.Fields(name+" "+country+" company official website"), " ")
		resp, ok := run.search(ctx, query, sources.Options{NumResults: 5, Category: "company"})
		if !ok {
			if run.skipped() {
				break
			}
			continue
		}
		d["searched"] = name
		d["web_results"] = snippets(resp.Records, 5, 200)
		d["source_urls"] = recordURLs(resp.Records, 5)
		return run.result(true, 0.60, resp.Source,
			fmt.Sprintf("Company '%s' found via web search (%d results). Existence only, not screened.", company, len(resp.Records)), d)
	}

	d["names_tried"] = names
	return run.fallback(false, 0.20, SourceNoResults,
		fmt.Sprintf("No info found for '%s'. Could indicate non-existent entity.", company), d)
}

func companyQuestion(company, country string) string {
	q := fmt.Sprintf("Is '%s'", company)
	if country != "" {
		q += " from " + country
	}
	return q + " a legitimate registered company? Provide: " +
		"1) Is it a real, registered business? " +
		"2) Official website URL " +
		"3) Industry/sector " +
		"4) Any SPECIFIC fraud convictions, regulatory actions, or criminal charges? " +
		"Do NOT flag generic industry fraud articles. Only flag if THIS SPECIFIC company has fraud issues."
}

type branch struct {
	SWIFT      string `json:"swift"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Country    string `json:"country"`
	GoogleMaps string `json:"google_maps"`
}

func (s *Service) verifyBankName(ctx context.Context, req Request) Result {
	bank := strings.TrimSpace(req.Value)
	if tooShort(bank) {
		return inputError(KindBankName, "Bank name too short.")
	}
	country := req.contextValue(ContextCountryCode)
	run := s.newRun(KindBankName)
	names := candidates.Names(bank)

	for _, name := range names {
		resp, ok := run.ask(ctx, StageRegistry, sources.RoleSwiftDirectory, name, sources.Options{Field: "bank", Country: country})
		if !ok {
			if run.skipped() {
				break
			}
			continue
		}
		branches := []branch{}
		for _, rec := range firstN(resp.Records, 10) {
			f := rec.Fields
			branches = append(branches, branch{
				SWIFT:      f["swift"],
				Name:       f["bank_name"],
				City:       f["city"],
				Country:    f["country"],
				GoogleMaps: links.GoogleMapsSearch(f["bank_name"] + " " + f["city"]),
			})
		}
		return run.result(true, 0.90, resp.Source,
			fmt.Sprintf("Found %d branch(es) for '%s' (searched: '%s').", len(resp.Records), bank, name),
			Details{"branches": branches, "total": len(resp.Records), "searched": name})
	}

	if resp, ok := run.research(ctx,
		fmt.Sprintf("Is '%s' a real bank? Give SWIFT/BIC codes, headquarters, official website. If misspelled suggest the correct name.", bank),
		"Banking expert. Verify bank existence. Provide SWIFT codes."); ok {
		return run.result(true, 0.75, resp.Source,
			fmt.Sprintf("'%s': %s", bank, truncate(resp.Content, 200)),
			Details{
				"bank_name":   bank,
				"research":    truncate(resp.Content, 800),
				"source_urls": firstN(resp.Citations, 5),
				"google_maps": links.GoogleMapsSearch(bank + " bank headquarters"),
			})
	}

	for _, name := range names {
		query := name + " bank SWIFT BIC code official website"
		if country != "" {
			query += " " + country
		}
		resp, ok := run.search(ctx, query, sources.Options{NumResults: 5, Category: "company"})
		if !ok {
			if run.skipped() {
				break
			}
			continue
		}
		return run.result(true, 0.65, resp.Source,
			fmt.Sprintf("'%s' found via web search (%d results).", bank, len(resp.Records)),
			Details{
				"bank_name":   bank,
				"searched":    name,
				"web_results": snippets(resp.Records, 5, 250),
				"source_urls": recordURLs(resp.Records, 5),
				"google_maps": links.GoogleMapsSearch(bank + " bank"),
			})
	}

	return run.fallback(false, 0.20, SourceNoResults,
		fmt.Sprintf("No info for '%s'. Names tried: %s", bank, strings.Join(names, ", ")),
		Details{
			"names_tried": names,
			"google_maps": links.GoogleMapsSearch(bank + " bank"),
		})
}

// checkSanctions screens a party. Research text decides; web search only
// says there is something to review.
func (s *Service) checkSanctions(ctx context.Context, req Request) Result {
	party := strings.TrimSpace(req.Value)
	if tooShort(party) {
		return inputError(KindSanctions, "Party name too short.")
	}
	run := s.newRun(KindSanctions)
	ofac := links.OFACSearch(party)

	if resp, ok := run.research(ctx,
		fmt.Sprintf("Is '%s' on any OFAC SDN, EU, or UN sanctions list? Check for fraud or money laundering too.", party),
		"AML/CFT compliance analyst. If no hits, say explicitly 'no sanctions found'."); ok {
		d := Details{
			"party":           party,
			"source_urls":     firstN(resp.Citations, 5),
			"ofac_search_url": ofac,
		}
		if s.policy.SanctionsFlagged(resp.Content) {
			d["research"] = truncate(resp.Content, 800)
			d["manual_review"] = true
			return run.result(false, 0.80, resp.Source,
				fmt.Sprintf("POTENTIAL SANCTIONS HIT for '%s'. Manual review required.", party), d)
		}
		d["research"] = truncate(resp.Content, 500)
		return run.result(true, 0.70, resp.Source,
			fmt.Sprintf("No sanctions hits found for '%s'.", party), d)
	}

	if resp, ok := run.search(ctx, fmt.Sprintf("'%s' OFAC sanctions SDN list", party), sources.Options{NumResults: 5}); ok {
		return run.result(true, 0.50, resp.Source,
			fmt.Sprintf("Web search: %d results for '%s'. Manual review recommended.", len(resp.Records), party),
			Details{
				"source_urls":     recordURLs(resp.Records, 5),
				"ofac_search_url": ofac,
				"manual_review":   true,
			})
	}

	return run.fallback(false, 0.30, SourceNoResults,
		fmt.Sprintf("Could not screen '%s'. Use OFAC link manually.", party),
		Details{"ofac_search_url": ofac, "manual_review": true})
}
