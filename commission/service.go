package commission

import (
	"context"

	"go.uber.org/zap"
)

// View is a loaded commission with its entries resolved and the mediator
// payout computed: everything a statement or an edit form needs.
type View struct {
	Record     *Record
	Resolution Resolution
	Payout     Payout
}

// Calculation is an unsaved preview.
type Calculation struct {
	Input     SaleInput
	Result    Result
	Payout    Payout
	Breakdown string
}

// Service ties the calculator, the codec and a Store together. It holds no
// state of its own between calls.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a service over store. A nil logger uses the global
// zap logger.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.L()
	}
	return &Service{store: store, logger: logger.Named("commission.service")}
}

// Preview computes a commission without persisting it.
func (s *Service) Preview(in SaleInput) Calculation {
	d := NewDraft(in, "")
	return Calculation{
		Input:     d.Input,
		Result:    d.Result,
		Payout:    MediatorPayout(d.Input),
		Breakdown: d.Breakdown,
	}
}

// Create computes and stores a new commission.
func (s *Service) Create(ctx context.Context, in SaleInput, actor string) (*View, error) {
	d := NewDraft(in, actor)

	id, err := s.store.Save(ctx, d)
	if err != nil {
		s.logger.Error("failed to save commission",
			zap.String("plot_no", in.PlotNo),
			zap.String("project", in.ProjectName),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("commission saved",
		zap.Int64("id", id),
		zap.String("plot_no", in.PlotNo),
		zap.String("total_amount", d.Result.TotalAmount.String()))

	return s.Get(ctx, id)
}

// Revise recomputes commission id from in and replaces the stored record.
func (s *Service) Revise(ctx context.Context, id int64, in SaleInput, actor string) (*View, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	d := NewDraft(in, actor)
	if err := s.store.Update(ctx, id, d); err != nil {
		if !IsNotFound(err) {
			s.logger.Error("failed to update commission", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("commission updated",
		zap.Int64("id", id),
		zap.String("total_amount", d.Result.TotalAmount.String()))

	return s.Get(ctx, id)
}

// Get loads commission id and resolves its entries.
func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	rec, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(rec), nil
}

// Search returns the newest commission for a plot.
func (s *Service) Search(ctx context.Context, plotNo, projectName string) (*View, error) {
	rec, err := s.store.FindLatest(ctx, plotNo, projectName)
	if err != nil {
		return nil, err
	}
	return s.view(rec), nil
}

// List returns commission summaries.
func (s *Service) List(ctx context.Context, f Filter) ([]Summary, error) {
	return s.store.List(ctx, f)
}

// Earnings ranks the people who collected commission under the filter.
func (s *Service) Earnings(ctx context.Context, f EarningsFilter) ([]Earning, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out, err := s.store.Earnings(ctx, f)
	if err != nil {
		s.logger.Error("failed to compute earnings",
			zap.String("project", f.ProjectName),
			zap.String("month", f.Month),
			zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Delete removes commission id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("commission deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) view(rec *Record) *View {
	res := ResolveBreakdown(rec.Breakdown, rec.Projections)
	if res.Approximate() {
		s.logger.Debug("breakdown reconstructed from names",
			zap.Int64("id", rec.ID))
	}

	rec.Input.Entries = res.Entries

	// Per-person splits follow the resolved entries so that statements show
	// the same people the edit form does.
	sq := rec.Input.SqYards
	pct := rec.Input.AgreementPercentage
	if rec.Result.Roles == nil {
		rec.Result.Roles = make(map[Role]RoleResult, len(AllRoles))
	}
	cgm := rec.Result.Roles[RoleCGM]
	cgm.Entries = entrySplits([]RoleEntry{rec.Input.CGM}, sq, pct)
	rec.Result.Roles[RoleCGM] = cgm
	for _, r := range MultiRoles {
		rr := rec.Result.Roles[r]
		rr.Entries = entrySplits(res.Entries[r], sq, pct)
		rec.Result.Roles[r] = rr
	}

	return &View{
		Record:     rec,
		Resolution: res,
		Payout:     MediatorPayout(rec.Input),
	}
}
