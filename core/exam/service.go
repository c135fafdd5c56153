package exam

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/mitihani/core"
)

type (
	Repository interface {
		ListClasses(ctx context.Context, ordering ...core.DBOrdering) ([]Class, error)
		ListSubjects(ctx context.Context, ordering ...core.DBOrdering) ([]Subject, error)
		// InsertExams stores every record or none of them.
		InsertExams(ctx context.Context, records []Record) error
	}

	// CommitHook is called once a schedule has been persisted.
	CommitHook func(sessionID string, op core.Operator, records []Record)

	Service struct {
		repo       Repository
		sessions   *Sessions
		validate   *validator.Validate
		translator ut.Translator
		log        core.Logger
		defaults   Parameters
		timeout    time.Duration
		hooks      []CommitHook
	}
)

const defaultCommitTimeout = 30 * time.Second

func NewService(
	repo Repository,
	sessions *Sessions,
	validate *validator.Validate,
	translator ut.Translator,
	log core.Logger,
	conf *core.Config,
) *Service {
	timeout := conf.Wizard.CommitTimeout
	if timeout <= 0 {
		timeout = defaultCommitTimeout
	}
	return &Service{
		repo:       repo,
		sessions:   sessions,
		validate:   validate,
		translator: translator,
		log:        log,
		defaults:   Parameters{MaxMarks: conf.Wizard.DefaultMaxMarks},
		timeout:    timeout,
	}
}

// OnCommit registers a hook run after every successful commit.
func (svc *Service) OnCommit(hook CommitHook) {
	svc.hooks = append(svc.hooks, hook)
}

// LoadCatalog fetches classes and subjects concurrently.
func (svc *Service) LoadCatalog(ctx context.Context) (Catalog, error) {
	var catalog Catalog
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		catalog.Classes, err = svc.repo.ListClasses(ctx)
		return errors.Wrap(err, "listing classes")
	})
	g.Go(func() (err error) {
		catalog.Subjects, err = svc.repo.ListSubjects(ctx)
		return errors.Wrap(err, "listing subjects")
	})

	if err := g.Wait(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func (svc *Service) ListClasses(ctx context.Context, ordering ...core.DBOrdering) ([]Class, error) {
	return svc.repo.ListClasses(ctx, ordering...)
}

func (svc *Service) ListSubjects(ctx context.Context, ordering ...core.DBOrdering) ([]Subject, error) {
	return svc.repo.ListSubjects(ctx, ordering...)
}

// Open starts a wizard session for op on a fresh catalogue.
func (svc *Service) Open(ctx context.Context, op core.Operator) (string, Wizard, error) {
	catalog, err := svc.LoadCatalog(ctx)
	if err != nil {
		return "", Wizard{}, err
	}
	w := NewWizard(catalog, svc.defaults)
	id := svc.sessions.Open(w, op)
	svc.log.Debug("exam wizard opened", map[string]interface{}{"session": id}, op)
	return id, w, nil
}

func (svc *Service) Get(id string) (Wizard, error) {
	return svc.sessions.Get(id)
}

// Close discards the session and everything entered in it.
func (svc *Service) Close(id string) error {
	return svc.sessions.Delete(id)
}

func (svc *Service) validateStruct(s interface{}) error {
	if err := svc.validate.Struct(s); err != nil {
		return core.TranslateValidationErrors(err, svc.translator)
	}
	return nil
}

func (svc *Service) SetParameters(id string, p Parameters) (Wizard, error) {
	if err := svc.validateStruct(p); err != nil {
		return Wizard{}, err
	}
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.SetParameters(p)
	})
}

func (svc *Service) SelectClasses(id string, classIDs []string) (Wizard, error) {
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.SelectClasses(classIDs)
	})
}

func (svc *Service) ChooseMode(id string, m Mode) (Wizard, error) {
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.ChooseMode(m)
	})
}

type slotList struct {
	Slots []TimeSlot `json:"slots" validate:"dive"`
}

func (svc *Service) SetSlots(id string, slots []TimeSlot) (Wizard, error) {
	if err := svc.validateStruct(slotList{Slots: slots}); err != nil {
		return Wizard{}, err
	}
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.SetSlots(slots)
	})
}

func (svc *Service) SetClassSubjects(id, classID string, subjectIDs []string) (Wizard, error) {
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.SetClassSubjects(classID, subjectIDs)
	})
}

func (svc *Service) Next(id string) (Wizard, error) {
	return svc.sessions.Update(id, Wizard.Next)
}

func (svc *Service) Back(id string) (Wizard, error) {
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.Back(), nil
	})
}

// Generate runs the chosen scheduling mode on the session's wizard.
func (svc *Service) Generate(id string) (Wizard, Result, error) {
	var res Result
	w, err := svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		var err error
		w, res, err = w.Generate()
		return w, err
	})
	if err != nil {
		return w, Result{}, err
	}
	if !res.Complete() {
		svc.log.Warn("auto-schedule ran out of exam days", map[string]interface{}{
			"session":  id,
			"unplaced": res.Unplaced,
		})
	}
	return w, res, nil
}

func (svc *Service) Assign(id string, c Cell, subjectID string) (Wizard, error) {
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.Assign(c, subjectID)
	})
}

func (svc *Service) Clear(id string, c Cell) (Wizard, error) {
	return svc.sessions.Update(id, func(w Wizard) (Wizard, error) {
		return w.Clear(c)
	})
}

// Commit persists the session's schedule as exam records, all or nothing.
// On success the session is closed; on failure it is left untouched so the commit can be retried.
// ctx is only checked before the commit starts: once started, the insert runs to completion
// (bounded by the commit timeout) even if the caller goes away.
func (svc *Service) Commit(ctx context.Context, id string) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w, err := svc.sessions.beginCommit(id)
	if err != nil {
		return nil, err
	}
	op, _ := svc.sessions.Operator(id)

	records, err := w.Records()
	if err != nil {
		svc.sessions.endCommit(id, false)
		return nil, err
	}
	insertCtx, cancel := context.WithTimeout(context.Background(), svc.timeout)
	defer cancel()
	if err := svc.repo.InsertExams(insertCtx, records); err != nil {
		svc.sessions.endCommit(id, false)
		svc.log.Error("exam schedule commit failed", err, map[string]interface{}{"session": id}, op)
		return nil, errors.Wrap(err, "inserting exams")
	}
	svc.sessions.endCommit(id, true)

	svc.log.Info("exam schedule committed", map[string]interface{}{
		"session": id,
		"exams":   len(records),
		"name":    records[0].Name,
	}, op)
	for _, hook := range svc.hooks {
		hook(id, op, records)
	}
	return records, nil
}
