/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the commission model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Commission:
    CommissionRequest (wraps form.Sale), CommissionDTO, PreviewDTO,
    SummaryDTO, EarningDTO

  Parts:
    InputDTO, ResultDTO, RoleDTO, EntryDTO, PayoutDTO

MONEY:
  Every amount and rate is a decimal.Decimal, which marshals as a JSON
  string ("900000", "0.25"). Clients must not parse them as floats.

VALIDATION:
  Request types carry validator/v10 struct tags for structural checks only
  (required plot number, bounded lists). Numeric text is never rejected:
  unparseable numbers count as zero.

SEE ALSO:
  - handlers.go: Uses these types
  - form/form.go: Sale, the calculator form
*/
package api

import (
	"time"

	"github.com/plotdesk/commission-engine/commission"
	"github.com/plotdesk/commission-engine/form"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CommissionRequest is the body of create, revise and preview.
type CommissionRequest struct {
	form.Sale
	CreatedBy string `json:"created_by" validate:"max=128"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// InputDTO echoes the parsed sale.
type InputDTO struct {
	PlotNo                string          `json:"plot_no"`
	ProjectName           string          `json:"project_name"`
	SqYards               decimal.Decimal `json:"sq_yards"`
	OriginalPrice         decimal.Decimal `json:"original_price"`
	NegotiatedPrice       decimal.Decimal `json:"negotiated_price"`
	AdvanceReceived       decimal.Decimal `json:"advance_received"`
	AgreementPercentage   decimal.Decimal `json:"agreement_percentage"`
	AmountPaidAtAgreement decimal.Decimal `json:"amount_paid_at_agreement"`
	AMCCharges            decimal.Decimal `json:"amc_charges"`
	MediatorDeduction     decimal.Decimal `json:"mediator_deduction"`
	BrokerCommission      decimal.Decimal `json:"broker_commission"`
}

// EntryDTO is one person's share.
type EntryDTO struct {
	Name           string          `json:"name"`
	Rate           decimal.Decimal `json:"rate"`
	Total          decimal.Decimal `json:"total"`
	AtAgreement    decimal.Decimal `json:"at_agreement"`
	AtRegistration decimal.Decimal `json:"at_registration"`
}

// RoleDTO is one role's aggregate and its people.
type RoleDTO struct {
	Role           string          `json:"role"`
	Label          string          `json:"label"`
	Rate           decimal.Decimal `json:"rate"`
	Total          decimal.Decimal `json:"total"`
	AtAgreement    decimal.Decimal `json:"at_agreement"`
	AtRegistration decimal.Decimal `json:"at_registration"`
	Entries        []EntryDTO      `json:"entries"`
}

// ResultDTO carries every computed figure.
type ResultDTO struct {
	TotalAmount           decimal.Decimal `json:"total_amount"`
	WValue                decimal.Decimal `json:"w_value"`
	BValue                decimal.Decimal `json:"b_value"`
	BalanceAmount         decimal.Decimal `json:"balance_amount"`
	ActualAgreementAmount decimal.Decimal `json:"actual_agreement_amount"`
	AgreementBalance      decimal.Decimal `json:"agreement_balance"`
	Roles                 []RoleDTO       `json:"roles"`
}

// PayoutDTO is the mediator settlement.
type PayoutDTO struct {
	Gross              decimal.Decimal `json:"gross"`
	Deduction          decimal.Decimal `json:"deduction"`
	Net                decimal.Decimal `json:"net"`
	AtAgreement        decimal.Decimal `json:"at_agreement"`
	DeductionEstimated bool            `json:"deduction_estimated"`
}

// CommissionDTO represents a stored commission in API responses.
type CommissionDTO struct {
	ID              int64     `json:"id"`
	Reference       string    `json:"reference"`
	Input           InputDTO  `json:"input"`
	Result          ResultDTO `json:"result"`
	Payout          PayoutDTO `json:"payout"`
	BreakdownSource string    `json:"breakdown_source"`
	Approximate     bool      `json:"approximate"`
	CreatedBy       string    `json:"created_by,omitempty"`
	UpdatedBy       string    `json:"updated_by,omitempty"`
	CreatedAt       string    `json:"created_at,omitempty"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
}

// PreviewDTO is an unsaved calculation.
type PreviewDTO struct {
	Input     InputDTO  `json:"input"`
	Result    ResultDTO `json:"result"`
	Payout    PayoutDTO `json:"payout"`
	Breakdown string    `json:"breakdown"`
}

// SummaryDTO is one row of the commission listing.
type SummaryDTO struct {
	ID          int64           `json:"id"`
	Reference   string          `json:"reference"`
	PlotNo      string          `json:"plot_no"`
	ProjectName string          `json:"project_name"`
	CGMName     string          `json:"cgm_name"`
	SrGMNames   string          `json:"srgm_names"`
	GMNames     string          `json:"gm_names"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	UpdatedAt   string          `json:"updated_at,omitempty"`
}

// EarningDTO is one row of the earnings ranking.
type EarningDTO struct {
	Role        string          `json:"role"`
	Label       string          `json:"label"`
	Name        string          `json:"name"`
	Total       decimal.Decimal `json:"total"`
	Commissions int             `json:"commissions"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toInputDTO(in commission.SaleInput) InputDTO {
	return InputDTO{
		PlotNo:                in.PlotNo,
		ProjectName:           in.ProjectName,
		SqYards:               in.SqYards,
		OriginalPrice:         in.OriginalPrice,
		NegotiatedPrice:       in.NegotiatedPrice,
		AdvanceReceived:       in.AdvanceReceived,
		AgreementPercentage:   in.AgreementPercentage,
		AmountPaidAtAgreement: in.AmountPaidAtAgreement,
		AMCCharges:            in.AMCCharges,
		MediatorDeduction:     in.MediatorDeduction,
		BrokerCommission:      in.BrokerCommission,
	}
}

func toResultDTO(res commission.Result) ResultDTO {
	dto := ResultDTO{
		TotalAmount:           res.TotalAmount,
		WValue:                res.WValue,
		BValue:                res.BValue,
		BalanceAmount:         res.BalanceAmount,
		ActualAgreementAmount: res.ActualAgreementAmount,
		AgreementBalance:      res.AgreementBalance,
		Roles:                 make([]RoleDTO, 0, len(commission.AllRoles)),
	}

	for _, r := range commission.AllRoles {
		rr := res.Role(r)
		role := RoleDTO{
			Role:           string(r),
			Label:          r.Label(),
			Rate:           rr.Rate,
			Total:          rr.Total,
			AtAgreement:    rr.AtAgreement,
			AtRegistration: rr.AtRegistration,
			Entries:        make([]EntryDTO, 0, len(rr.Entries)),
		}
		for _, e := range rr.Entries {
			role.Entries = append(role.Entries, EntryDTO{
				Name:           e.Name,
				Rate:           e.Rate,
				Total:          e.Total,
				AtAgreement:    e.AtAgreement,
				AtRegistration: e.AtRegistration,
			})
		}
		dto.Roles = append(dto.Roles, role)
	}
	return dto
}

func toPayoutDTO(p commission.Payout) PayoutDTO {
	return PayoutDTO{
		Gross:              p.Gross,
		Deduction:          p.Deduction,
		Net:                p.Net,
		AtAgreement:        p.AtAgreement,
		DeductionEstimated: p.DeductionEstimated,
	}
}

func toCommissionDTO(v *commission.View) CommissionDTO {
	rec := v.Record
	return CommissionDTO{
		ID:              rec.ID,
		Reference:       rec.Reference,
		Input:           toInputDTO(rec.Input),
		Result:          toResultDTO(rec.Result),
		Payout:          toPayoutDTO(v.Payout),
		BreakdownSource: string(v.Resolution.Source),
		Approximate:     v.Resolution.Approximate(),
		CreatedBy:       rec.CreatedBy,
		UpdatedBy:       rec.UpdatedBy,
		CreatedAt:       formatTime(rec.CreatedAt),
		UpdatedAt:       formatTime(rec.UpdatedAt),
	}
}

func toPreviewDTO(c commission.Calculation) PreviewDTO {
	return PreviewDTO{
		Input:     toInputDTO(c.Input),
		Result:    toResultDTO(c.Result),
		Payout:    toPayoutDTO(c.Payout),
		Breakdown: c.Breakdown,
	}
}

func toSummaryDTO(s commission.Summary) SummaryDTO {
	return SummaryDTO{
		ID:          s.ID,
		Reference:   s.Reference,
		PlotNo:      s.PlotNo,
		ProjectName: s.ProjectName,
		CGMName:     s.CGMName,
		SrGMNames:   s.SrGMNames,
		GMNames:     s.GMNames,
		TotalAmount: s.TotalAmount,
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
}

func toEarningDTO(e commission.Earning) EarningDTO {
	return EarningDTO{
		Role:        string(e.Role),
		Label:       e.Role.Label(),
		Name:        e.Name,
		Total:       e.Total,
		Commissions: e.Commissions,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
