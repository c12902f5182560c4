// Package report routes analysis requests to the metric calculators and the
// crosstab engine and bundles their tables for display and export.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Olivia010207/NPS/internal/crosstab"
	"github.com/Olivia010207/NPS/internal/metrics"
	"github.com/Olivia010207/NPS/internal/survey"
	"github.com/Olivia010207/NPS/internal/table"
)

// Settings are the dataset-wide analysis defaults.
type Settings struct {
	MaxRank         int
	FreeTextMarkers []string
	MergeOther      bool
	OtherKeywords   []string
	OtherLabel      string
}

// DefaultSettings mirrors crosstab.DefaultOptions and a rank depth of 5.
func DefaultSettings() Settings {
	o := crosstab.DefaultOptions()
	return Settings{
		MaxRank:         metrics.DefaultMaxRank,
		FreeTextMarkers: o.FreeTextMarkers,
		MergeOther:      o.MergeOther,
		OtherKeywords:   o.OtherKeywords,
		OtherLabel:      o.OtherLabel,
	}
}

// Service answers analysis requests against one immutable Dataset. It holds
// no mutable state and may be shared across goroutines.
type Service struct {
	ds       *survey.Dataset
	settings Settings
	source   string
	log      *slog.Logger
	now      func() time.Time
}

// NewService binds a Dataset. source names the input (file name) in bundles.
func NewService(ds *survey.Dataset, source string, s Settings, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.MaxRank <= 0 {
		s.MaxRank = metrics.DefaultMaxRank
	}
	return &Service{
		ds:       ds,
		settings: s,
		source:   source,
		log:      logger.With(slog.String("component", "report")),
		now:      time.Now,
	}
}

// Dataset returns the bound dataset.
func (s *Service) Dataset() *survey.Dataset { return s.ds }

// Run validates req, dispatches it and returns the resulting bundle. Errors
// are returned as produced, with no partial bundle.
func (s *Service) Run(ctx context.Context, req Request) (*Bundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b := &Bundle{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Source:    s.source,
		CreatedAt: s.now().UTC(),
	}
	start := time.Now()
	var err error
	switch req.Type {
	case TypeNPS:
		err = s.eachQuestion(ctx, req.QuestionIDs, func(id string) error { return s.nps(b, id) })
	case TypeNSS:
		err = s.eachQuestion(ctx, req.QuestionIDs, func(id string) error { return s.nss(b, id) })
	case TypeNSSDetail:
		err = s.eachQuestion(ctx, req.QuestionIDs, func(id string) error {
			return s.detail(b, id, othersLabel(id, len(req.QuestionIDs)))
		})
	case TypeRank:
		maxRank := req.MaxRank
		if maxRank == 0 {
			maxRank = s.settings.MaxRank
		}
		err = s.eachQuestion(ctx, req.QuestionIDs, func(id string) error {
			return s.rank(b, id, maxRank, othersLabel(id, len(req.QuestionIDs)))
		})
	case TypeOpen:
		err = s.eachQuestion(ctx, req.QuestionIDs, func(id string) error { return s.open(b, id) })
	case TypeCross:
		err = s.cross(ctx, b, req.Cross)
	case TypeFactor:
		err = s.factor(b, req.QuestionIDs[0], req.Factors)
	default:
		err = fmt.Errorf("unsupported analysis type %q", req.Type)
	}
	if err != nil {
		s.log.Debug("analysis failed", slog.String("type", string(req.Type)), slog.String("error", err.Error()))
		return nil, err
	}
	s.log.Info("analysis complete",
		slog.String("id", b.ID),
		slog.String("type", string(req.Type)),
		slog.Int("tables", len(b.Entries)),
		slog.Duration("elapsed", time.Since(start)))
	return b, nil
}

func (s *Service) eachQuestion(ctx context.Context, ids []string, fn func(string) error) error {
	if len(ids) == 0 {
		return &survey.MissingArgumentError{Argument: "question_ids"}
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(id); err != nil {
			return err
		}
	}
	return nil
}

// othersLabel keys supplementary free text; with several questions in one
// request each gets its own entry.
func othersLabel(id string, n int) string {
	if n > 1 {
		return id + " " + OthersLabel
	}
	return OthersLabel
}

func (s *Service) typed(id string, expected ...survey.QuestionType) (survey.Group, error) {
	g, err := s.ds.Group(id)
	if err != nil {
		return survey.Group{}, err
	}
	if err := survey.CheckType(id, g.Type, expected...); err != nil {
		return survey.Group{}, err
	}
	return g, nil
}

func (s *Service) nps(b *Bundle, id string) error {
	g, err := s.typed(id, survey.Single)
	if err != nil {
		return err
	}
	b.add(id, metrics.NPSTable(s.ds.Values(g.Columns[0].RawColumn)))
	return nil
}

func (s *Service) nss(b *Bundle, id string) error {
	g, err := s.typed(id, survey.Single)
	if err != nil {
		return err
	}
	b.add(id, metrics.NSSTable(metrics.Columns(s.ds, g.Columns)))
	return nil
}

func (s *Service) detail(b *Bundle, id, others string) error {
	g, err := s.typed(id, survey.Multi)
	if err != nil {
		return err
	}
	opts, texts := g.Split(s.settings.FreeTextMarkers...)
	b.add(id, metrics.MultiDetailTable(metrics.Columns(s.ds, opts)))
	b.add(others, metrics.FreeTextTable(OthersLabel, metrics.Columns(s.ds, texts)))
	return nil
}

func (s *Service) rank(b *Bundle, id string, maxRank int, others string) error {
	g, err := s.typed(id, survey.Rank)
	if err != nil {
		return err
	}
	opts, texts := g.Split(s.settings.FreeTextMarkers...)
	b.add(id, metrics.RankTable(metrics.Columns(s.ds, opts), maxRank))
	b.add(others, metrics.FreeTextTable(OthersLabel, metrics.Columns(s.ds, texts)))
	return nil
}

// open collects every column of a free-text question, or the supplementary
// text columns of any other question.
func (s *Service) open(b *Bundle, id string) error {
	g, err := s.ds.Group(id)
	if err != nil {
		return err
	}
	cols := g.Columns
	if g.Type != survey.FreeText {
		_, cols = g.Split(s.settings.FreeTextMarkers...)
	}
	b.add(id, metrics.FreeTextTable(g.Label(), metrics.Columns(s.ds, cols)))
	return nil
}

func (s *Service) cross(ctx context.Context, b *Bundle, p *CrossParams) error {
	if p == nil {
		return &survey.MissingArgumentError{Argument: "cross"}
	}
	stat, err := crosstab.LookupStatistic(p.Statistic)
	if err != nil {
		return err
	}
	opt := crosstab.Options{
		RowLabels:       p.RowLabels,
		ColLabels:       p.ColLabels,
		Statistic:       stat,
		StatRowName:     p.StatRowName,
		MergeOther:      s.settings.MergeOther,
		OtherKeywords:   s.settings.OtherKeywords,
		OtherLabel:      s.settings.OtherLabel,
		FreeTextMarkers: s.settings.FreeTextMarkers,
		Percent:         p.Percent,
	}
	if p.MergeOther != nil {
		opt.MergeOther = *p.MergeOther
	}
	entries, err := crosstab.New(s.ds, opt).CrossEach(ctx, p.RowID, p.ColID)
	if err != nil {
		return err
	}
	for _, en := range entries {
		s.log.Debug("crosstab",
			slog.String("row", p.RowID),
			slog.String("col", p.ColID),
			slog.String("entry", en.Label),
			slog.String("mode", en.Result.Mode.String()))
		b.add(en.Label, en.Result.Table)
		if p.SplitOptions {
			for _, part := range en.Result.Parts {
				b.add(part.Label, part.Table)
			}
		}
	}
	return nil
}

func (s *Service) factor(b *Bundle, scoreID string, factorIDs []string) error {
	g, err := s.typed(scoreID, survey.Single)
	if err != nil {
		return err
	}
	scores := s.ds.Values(g.Columns[0].RawColumn)
	var cols []metrics.Column
	for _, id := range factorIDs {
		fg, err := s.typed(id, survey.Single, survey.Multi)
		if err != nil {
			return err
		}
		opts, _ := fg.Split(s.settings.FreeTextMarkers...)
		cols = append(cols, metrics.Columns(s.ds, opts)...)
	}
	b.add(scoreID, metrics.FactorTable(metrics.FactorAnalysis(scores, cols)))
	return nil
}

// QuestionSummary describes one question for pickers and the schema command.
type QuestionSummary struct {
	QuestionID string              `json:"question_id"`
	Type       survey.QuestionType `json:"type"`
	Label      string              `json:"label"`
	Columns    int                 `json:"columns"`
	Options    int                 `json:"options"`
	TextFields int                 `json:"text_fields"`
}

// Questions lists the dataset's questions in column order.
func (s *Service) Questions() []QuestionSummary {
	ids := s.ds.Schema.QuestionIDs()
	out := make([]QuestionSummary, 0, len(ids))
	for _, id := range ids {
		g, err := s.ds.Group(id)
		if err != nil {
			continue
		}
		opts, texts := g.Split(s.settings.FreeTextMarkers...)
		out = append(out, QuestionSummary{
			QuestionID: id,
			Type:       g.Type,
			Label:      g.Label(),
			Columns:    len(g.Columns),
			Options:    len(opts),
			TextFields: len(texts),
		})
	}
	return out
}

// QuestionsTable renders Questions as a table.
func (s *Service) QuestionsTable() *table.Table {
	t := table.New("Question", "Type", "Label", "Columns", "Options", "Text fields")
	for _, q := range s.Questions() {
		t.AddRow(q.QuestionID,
			table.Text(q.Type.Code()),
			table.Text(q.Label),
			table.Count(q.Columns),
			table.Count(q.Options),
			table.Count(q.TextFields))
	}
	return t
}
