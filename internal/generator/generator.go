// Package generator turns formulation sheets and production days into
// stored, versioned material documents.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mahdibujari75/Sampling-App/internal/domain/formulation"
	"github.com/mahdibujari75/Sampling-App/internal/domain/materials"
	"github.com/mahdibujari75/Sampling-App/internal/domain/production"
	"github.com/mahdibujari75/Sampling-App/internal/domain/projects"
	"github.com/mahdibujari75/Sampling-App/internal/domain/render"
	"github.com/mahdibujari75/Sampling-App/internal/domain/versioning"
	"github.com/mahdibujari75/Sampling-App/internal/infra/lock"
	"github.com/mahdibujari75/Sampling-App/internal/infra/metrics"
	"github.com/mahdibujari75/Sampling-App/internal/infra/storage"
)

const (
	DayPrefix       = "DP"
	DayCounterparty = "Production"

	maxConcurrentExtractions = 4
)

type Service struct {
	store    storage.Store
	locker   lock.Locker
	renderer *render.Renderer
	log      *slog.Logger
}

func NewService(store storage.Store, locker lock.Locker, renderer *render.Renderer, log *slog.Logger) *Service {
	return &Service{store: store, locker: locker, renderer: renderer, log: log}
}

// Published is a document that has been written to the store.
type Published struct {
	Dir      string
	FileName string
	Pages    int
	Data     []byte
}

// SourceFiles lists the formulation sheets of a subproject, newest first.
func (s *Service) SourceFiles(ctx context.Context, sub projects.Subproject) ([]versioning.SourceFile, error) {
	scope, err := sub.SourceScope()
	if err != nil {
		return nil, err
	}
	listing, err := s.store.List(ctx, scope.Dir())
	if err != nil {
		return nil, &StepError{Step: StepPersist, Target: scope.Dir(), Err: err}
	}
	return versioning.SourceFiles(listing, versioning.SourceFamily(scope.Folder)), nil
}

// Extract reads one formulation sheet of the subproject.
func (s *Service) Extract(ctx context.Context, sub projects.Subproject, file string) (*formulation.Document, error) {
	kind, err := sub.FormulationKind()
	if err != nil {
		return nil, err
	}
	scope := sub.Scope(kind.Folder())
	return s.extract(ctx, kind, scope.Dir(), file)
}

func (s *Service) extract(ctx context.Context, kind formulation.Kind, dir, file string) (*formulation.Document, error) {
	target := path.Join(dir, file)
	data, err := s.store.Get(ctx, dir, file)
	if err != nil {
		metrics.ExtractionFailures.WithLabelValues(kind.String()).Inc()
		return nil, &StepError{Step: StepExtraction, Target: target, Err: &formulation.SourceReadError{File: file, Err: err}}
	}
	doc, err := formulation.ExtractBytes(kind, file, data)
	if err != nil {
		metrics.ExtractionFailures.WithLabelValues(kind.String()).Inc()
		return nil, &StepError{Step: StepExtraction, Target: target, Err: err}
	}
	return doc, nil
}

// ExtractCard builds a plan card from one formulation sheet.
func (s *Service) ExtractCard(ctx context.Context, sub projects.Subproject, file string) (production.Card, error) {
	doc, err := s.Extract(ctx, sub, file)
	if err != nil {
		return production.Card{}, err
	}
	return production.Card{
		SubprojectID:    sub.ID,
		SubprojectCode:  sub.Code,
		CustomerSlug:    sub.CustomerSlug,
		CustomerName:    sub.CustomerName,
		Kind:            doc.Kind,
		FormulationFile: doc.SourceFile,
		Items:           doc.Items,
	}, nil
}

// ExtractCards refreshes the items of every card from its source sheet.
// Cards are read concurrently; the first failure cancels the rest.
func (s *Service) ExtractCards(ctx context.Context, cards []production.Card) ([]production.Card, error) {
	out := make([]production.Card, len(cards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentExtractions)
	for i, c := range cards {
		g.Go(func() error {
			dir := storage.Scope{CustomerSlug: c.CustomerSlug, SubprojectCode: c.SubprojectCode, Folder: c.Kind.Folder()}.Dir()
			doc, err := s.extract(gctx, c.Kind, dir, c.FormulationFile)
			if err != nil {
				return err
			}
			c.Items = doc.Items
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CardDocument renders the document of one card into its subproject
// folder. The header is taken from the card's source sheet.
func (s *Service) CardDocument(ctx context.Context, t versioning.DocType, card production.Card) (*Published, error) {
	src := storage.Scope{CustomerSlug: card.CustomerSlug, SubprojectCode: card.SubprojectCode, Folder: card.Kind.Folder()}
	doc, err := s.extract(ctx, card.Kind, src.Dir(), card.FormulationFile)
	if err != nil {
		return nil, err
	}
	prefix := versioning.Prefix(card.SubprojectCode)
	sourceRef := prefix
	if doc.VersionTag != "" {
		sourceRef = fmt.Sprintf("%s- %s", prefix, doc.VersionTag)
	}
	scope := storage.Scope{CustomerSlug: card.CustomerSlug, SubprojectCode: card.SubprojectCode, Folder: t.Folder()}
	return s.publish(ctx, scope.Dir(), "card", render.Request{
		Type:   t,
		Prefix: prefix,
		Header: render.Header{
			Counterparty: card.CustomerName,
			SourceRef:    sourceRef,
			Date:         doc.Date.Full,
		},
		Items: materials.Aggregate(doc.Items),
	})
}

// DayDocument renders the consolidated materials of a production day.
// The items are derived from the cards, never from the stored aggregate.
func (s *Service) DayDocument(ctx context.Context, t versioning.DocType, plan *production.DayPlan) (*Published, error) {
	if plan == nil {
		return nil, production.ErrPlanNotFound
	}
	lists := make([][]materials.Item, 0, len(plan.Cards))
	for _, c := range plan.Cards {
		lists = append(lists, c.Items)
	}
	return s.publish(ctx, storage.DayDir(plan.Date), "day", render.Request{
		Type:   t,
		Prefix: DayPrefix,
		Header: render.Header{
			Counterparty: DayCounterparty,
			SourceRef:    fmt.Sprintf("DAY%s", versioning.Pad(plan.DayNumber)),
			Date:         plan.Date,
		},
		Items: materials.Aggregate(lists...),
	})
}

// publish allocates the next version of req in dir and stores it.
func (s *Service) publish(ctx context.Context, dir, level string, req render.Request) (*Published, error) {
	family, err := versioning.FamilyFor(req.Type)
	if err != nil {
		return nil, &StepError{Step: StepVersioning, Target: dir, Err: err}
	}
	out, err := s.allocate(ctx, dir, req.Prefix, family, func(seq string) (string, []byte, int, error) {
		req.Sequence = seq
		req.Header.RefCode = versioning.HeaderCode(req.Prefix, req.Type, seq)
		res, err := s.renderer.Render(req)
		if err != nil {
			return "", nil, 0, &StepError{Step: StepRendering, Target: dir, Err: err}
		}
		return res.FileName, res.Data, len(res.Pages), nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DocumentsRendered.WithLabelValues(string(req.Type), level).Inc()
	metrics.RenderedPages.Observe(float64(out.Pages))
	s.log.Info("document stored", "dir", dir, "file", out.FileName, "pages", out.Pages, "items", len(req.Items))
	return out, nil
}

// StoreSource files an uploaded formulation sheet under the next free SF
// number of the subproject. The sheet must extract cleanly first. The
// returned document describes the stored name.
func (s *Service) StoreSource(ctx context.Context, sub projects.Subproject, name string, data []byte) (*Published, *formulation.Document, error) {
	kind, err := sub.FormulationKind()
	if err != nil {
		return nil, nil, err
	}
	scope := sub.Scope(kind.Folder())
	doc, err := formulation.ExtractBytes(kind, name, data)
	if err != nil {
		metrics.ExtractionFailures.WithLabelValues(kind.String()).Inc()
		return nil, nil, &StepError{Step: StepExtraction, Target: name, Err: err}
	}
	prefix := versioning.Prefix(sub.Code)
	var seq string
	out, err := s.allocate(ctx, scope.Dir(), prefix, versioning.SourceFamily(scope.Folder), func(next string) (string, []byte, int, error) {
		seq = next
		return versioning.FileName(prefix, versioning.DocSF, next, doc.Date.Short), data, 0, nil
	})
	if err != nil {
		return nil, nil, err
	}
	doc.SourceFile = out.FileName
	doc.VersionTag = fmt.Sprintf("%s%s", versioning.DocSF, seq)
	s.log.Info("formulation stored", "dir", out.Dir, "file", out.FileName, "upload", name)
	return out, doc, nil
}

// allocate builds the content for the next free sequence of family in
// dir and creates it. The listing, allocation and write share one
// critical section per dir, prefix and type. A name taken underneath us
// gets one retry.
func (s *Service) allocate(ctx context.Context, dir, prefix string, family *versioning.Family, build func(seq string) (string, []byte, int, error)) (*Published, error) {
	key := strings.Join([]string{dir, prefix, string(family.Type)}, "|")

	var out *Published
	err := lock.With(ctx, s.locker, key, func() error {
		for attempt := 0; attempt < 2; attempt++ {
			listing, err := s.store.List(ctx, dir)
			if err != nil {
				return &StepError{Step: StepVersioning, Target: dir, Err: err}
			}
			name, data, pages, err := build(versioning.NextSequence(listing, prefix, family))
			if err != nil {
				return err
			}

			err = s.store.Create(ctx, dir, name, data)
			if errors.Is(err, storage.ErrExists) {
				metrics.VersionConflicts.Inc()
				s.log.Warn("version taken, reallocating", "dir", dir, "file", name, "attempt", attempt+1)
				if attempt == 1 {
					return &StepError{Step: StepPersist, Target: dir, Err: &VersionConflictError{Scope: dir, FileName: name}}
				}
				continue
			}
			if err != nil {
				return &StepError{Step: StepPersist, Target: path.Join(dir, name), Err: err}
			}

			out = &Published{Dir: dir, FileName: name, Pages: pages, Data: data}
			return nil
		}
		return nil
	})
	if errors.Is(err, lock.ErrNotObtained) {
		return nil, &StepError{Step: StepVersioning, Target: dir, Err: err}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
