// Package assistant turns a computed analysis into a plain-language
// explanation via an LLM. The model only ever narrates numbers that
// were already computed; it is never asked to produce one.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"deal_analyzer/pkg/core/deal"
	"deal_analyzer/pkg/core/llm"
	"deal_analyzer/pkg/core/risk"
	"deal_analyzer/pkg/core/utils"
)

const systemPrompt = `You are a rental property investment analyst.
You receive the computed metrics and risk breakdown for one deal.
Explain what they mean for the investor. Never invent or recompute
numbers; only interpret the ones given. Respond with a JSON object:
{"summary": str, "strengths": [str], "concerns": [str], "verdict": str}.
Verdict is one short sentence.`

// Explanation is the structured narration of one deal.
type Explanation struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
	Verdict   string   `json:"verdict"`
}

// Explainer narrates analyses through one provider.
type Explainer struct {
	provider llm.Provider
}

func NewExplainer(provider llm.Provider) *Explainer {
	return &Explainer{provider: provider}
}

// Explain runs one narration call and parses the response, tolerating
// the usual model JSON defects.
func (e *Explainer) Explain(ctx context.Context, m deal.Metrics, a *risk.Assessment) (*Explanation, error) {
	prompt := BuildPrompt(m, a)

	raw, err := e.provider.Generate(ctx, prompt, systemPrompt, llm.Options{
		JSONMode:    true,
		Temperature: 0.2,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation generation failed: %w", err)
	}

	var out Explanation
	if _, err := utils.SmartParse(raw, &out); err != nil {
		log.Warn().Str("raw", truncate(raw, 200)).Msg("unparseable explanation from model")
		return nil, fmt.Errorf("explanation parse failed: %w", err)
	}
	return &out, nil
}

// BuildPrompt lays the metrics and factor scores out as a document the
// model narrates from.
func BuildPrompt(m deal.Metrics, a *risk.Assessment) string {
	var b strings.Builder

	b.WriteString("## Deal metrics\n")
	fmt.Fprintf(&b, "- Purchase price: $%s\n", m.PurchasePrice.StringFixed(2))
	fmt.Fprintf(&b, "- Loan amount: $%s (monthly mortgage $%s)\n",
		m.LoanAmount.StringFixed(2), m.MonthlyMortgage.StringFixed(2))
	fmt.Fprintf(&b, "- Effective gross income: $%s/mo, operating expenses: $%s/mo\n",
		m.EffectiveGrossIncome.StringFixed(2), m.OperatingExpenses.StringFixed(2))
	fmt.Fprintf(&b, "- NOI: $%s/yr, cap rate: %s\n", m.NOI.StringFixed(2), m.CapRate)
	fmt.Fprintf(&b, "- Cash flow: $%s/mo on $%s invested\n",
		m.MonthlyCashFlow.StringFixed(2), m.TotalCashInvested.StringFixed(2))
	fmt.Fprintf(&b, "- Cash-on-cash: %s, DSCR: %s, GRM: %s\n", m.CashOnCash, m.DSCR, m.GRM)
	fmt.Fprintf(&b, "- 5yr IRR: %s, 10yr IRR: %s\n", m.IRR5Yr, m.IRR10Yr)

	if a != nil {
		fmt.Fprintf(&b, "\n## Risk: %s (%s)\n", a.Score, a.Label)
		for _, f := range a.Factors {
			if f.NotApplicable {
				fmt.Fprintf(&b, "- %s: not applicable\n", f.ID)
				continue
			}
			fmt.Fprintf(&b, "- %s: %s (weight %s)\n", f.ID, f.Score, f.Weight)
		}
	}

	return b.String()
}

// Markdown renders the explanation as a markdown document.
func (x *Explanation) Markdown() string {
	var b strings.Builder
	b.WriteString(x.Summary)
	b.WriteString("\n\n")
	if len(x.Strengths) > 0 {
		b.WriteString("**Strengths**\n\n")
		for _, s := range x.Strengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(x.Concerns) > 0 {
		b.WriteString("**Concerns**\n\n")
		for _, c := range x.Concerns {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "**Verdict:** %s\n", x.Verdict)
	return b.String()
}

// HTML renders the explanation for embedding in a page.
func (x *Explanation) HTML() (string, error) {
	return utils.RenderMarkdown(x.Markdown())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
