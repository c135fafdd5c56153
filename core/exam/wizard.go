package exam

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core"
)

var (
	ErrStepIncomplete   = errors.New("current step is incomplete")
	ErrWrongStep        = errors.New("operation not available at this step")
	ErrUnknownClass     = errors.New("unknown class")
	ErrUnknownSubject   = errors.New("unknown subject")
	ErrClassNotSelected = errors.New("class is not selected")
	ErrDuplicateSlot    = errors.New("duplicate slot id")
	ErrInvalidMode      = errors.New("invalid scheduling mode")
)

// Step is a wizard step. Steps are walked in order, one at a time.
type Step int

const (
	StepParameters Step = iota + 1
	StepClasses
	StepMode
	StepSlots
	StepSubjects
	StepSchedule
)

var stepNames = map[Step]string{
	StepParameters: "parameters",
	StepClasses:    "classes",
	StepMode:       "mode",
	StepSlots:      "slots",
	StepSubjects:   "subjects",
	StepSchedule:   "schedule",
}

func (s Step) String() string {
	return stepNames[s]
}

// Mode selects how step 6 fills the schedule.
type Mode int

const (
	ModeUnset Mode = iota
	ModeAuto
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	default:
		return ""
	}
}

func ParseMode(s string) (Mode, error) {
	switch core.CleanString(s, true /* lower */) {
	case "auto":
		return ModeAuto, nil
	case "manual":
		return ModeManual, nil
	default:
		return ModeUnset, ErrInvalidMode
	}
}

// MarshalJSON renders ModeUnset as null.
func (m Mode) MarshalJSON() ([]byte, error) {
	if m == ModeUnset {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// FormState is everything the wizard collects.
type FormState struct {
	Parameters      Parameters    `json:"parameters"`
	SelectedClasses []string      `json:"selected_classes"`
	Slots           Slots         `json:"slots"`
	ClassSubjects   ClassSubjects `json:"class_subjects"`
	Schedule        Schedule      `json:"schedule"`
	Mode            Mode          `json:"mode"`
}

func newFormState(defaults Parameters) FormState {
	return FormState{
		Parameters:      defaults,
		SelectedClasses: make([]string, 0),
		Slots:           make(Slots, 0),
		ClassSubjects:   make(ClassSubjects),
		Schedule:        make(Schedule, 0),
	}
}

func (f FormState) clone() FormState {
	c := f
	c.SelectedClasses = append([]string(nil), f.SelectedClasses...)
	c.Slots = append(Slots(nil), f.Slots...)
	c.ClassSubjects = f.ClassSubjects.clone()
	c.Schedule = f.Schedule.clone()
	return c
}

// Wizard is the exam scheduling state machine.
// It is a value: every transition returns a new Wizard and leaves the receiver untouched.
type Wizard struct {
	step    Step
	form    FormState
	catalog Catalog
}

// NewWizard opens a wizard on step 1. defaults pre-fill the parameters form.
func NewWizard(catalog Catalog, defaults Parameters) Wizard {
	return Wizard{
		step:    StepParameters,
		form:    newFormState(defaults),
		catalog: catalog,
	}
}

func (w Wizard) Step() Step         { return w.step }
func (w Wizard) Form() FormState    { return w.form.clone() }
func (w Wizard) Catalog() Catalog   { return w.catalog }
func (w Wizard) Schedule() Schedule { return w.form.Schedule.clone() }

func (w Wizard) with(f FormState) Wizard {
	w.form = f
	return w
}

func (w Wizard) checkStep(step Step) error {
	if w.step != step {
		return errors.Wrapf(ErrWrongStep, "on step %q, want %q", w.step, step)
	}
	return nil
}

// CanProceed reports whether the current step's guard holds.
// On the last step it tells whether the schedule can be committed.
func (w Wizard) CanProceed() bool {
	f := w.form
	switch w.step {
	case StepParameters:
		return f.Parameters.IsComplete()
	case StepClasses:
		return len(f.SelectedClasses) > 0
	case StepMode:
		return f.Mode != ModeUnset
	case StepSlots:
		return len(f.Slots) > 0
	case StepSubjects:
		return f.ClassSubjects.AnyNonEmpty(f.SelectedClasses)
	case StepSchedule:
		return len(f.Schedule) > 0
	default:
		return false
	}
}

// Next moves forward one step. The wizard stays put when the guard fails.
func (w Wizard) Next() (Wizard, error) {
	if w.step == StepSchedule {
		return w, errors.Wrap(ErrWrongStep, "last step: commit instead")
	}
	if !w.CanProceed() {
		return w, errors.Wrapf(ErrStepIncomplete, "step %q", w.step)
	}
	w.step++
	return w, nil
}

// Back moves one step backward. Nothing collected so far is discarded.
func (w Wizard) Back() Wizard {
	if w.step > StepParameters {
		w.step--
	}
	return w
}

// SetParameters replaces the exam parameters (step 1).
// Schedule entries dated outside the new range are dropped.
func (w Wizard) SetParameters(p Parameters) (Wizard, error) {
	if err := w.checkStep(StepParameters); err != nil {
		return w, err
	}
	p.Name = core.CleanString(p.Name)
	p.Term = core.CleanString(p.Term)

	f := w.form.clone()
	f.Parameters = p
	dates := p.Dates()
	kept := make(Schedule, 0, len(f.Schedule))
	for _, e := range f.Schedule {
		if containsDate(dates, e.Date) {
			kept = append(kept, e)
		}
	}
	f.Schedule = kept
	return w.with(f), nil
}

// SelectClasses replaces the class selection (step 2).
// Newly selected classes default to the whole subject catalogue.
// Schedule entries of classes that are no longer selected are dropped.
func (w Wizard) SelectClasses(classIDs []string) (Wizard, error) {
	if err := w.checkStep(StepClasses); err != nil {
		return w, err
	}
	selected := uniqueStrings(classIDs)
	for _, id := range selected {
		if _, ok := w.catalog.Class(id); !ok {
			return w, errors.Wrapf(ErrUnknownClass, "class %q", id)
		}
	}

	f := w.form.clone()
	f.SelectedClasses = selected
	for _, id := range selected {
		if _, ok := f.ClassSubjects[id]; !ok {
			f.ClassSubjects[id] = w.catalog.SubjectIDs()
		}
	}
	kept := make(Schedule, 0, len(f.Schedule))
	for _, e := range f.Schedule {
		if containsString(selected, e.ClassID) {
			kept = append(kept, e)
		}
	}
	f.Schedule = kept
	return w.with(f), nil
}

// ChooseMode picks auto or manual scheduling (step 3).
// Choosing auto while there are no slots seeds the default slots.
func (w Wizard) ChooseMode(m Mode) (Wizard, error) {
	if err := w.checkStep(StepMode); err != nil {
		return w, err
	}
	if m != ModeAuto && m != ModeManual {
		return w, ErrInvalidMode
	}

	f := w.form.clone()
	f.Mode = m
	if m == ModeAuto && len(f.Slots) == 0 {
		f.Slots = DefaultSlots()
	}
	return w.with(f), nil
}

// SetSlots replaces the day's time slots (step 4). Slots without an ID get one.
func (w Wizard) SetSlots(slots []TimeSlot) (Wizard, error) {
	if err := w.checkStep(StepSlots); err != nil {
		return w, err
	}
	cleaned := make(Slots, 0, len(slots))
	seen := make(map[string]bool, len(slots))
	for _, s := range slots {
		s.ID = core.CleanString(s.ID)
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if seen[s.ID] {
			return w, errors.Wrapf(ErrDuplicateSlot, "slot %q", s.ID)
		}
		seen[s.ID] = true
		s.Label = core.CleanString(s.Label)
		cleaned = append(cleaned, s)
	}

	f := w.form.clone()
	f.Slots = cleaned
	return w.with(f), nil
}

// SetClassSubjects narrows the subjects one selected class sits (step 5).
func (w Wizard) SetClassSubjects(classID string, subjectIDs []string) (Wizard, error) {
	if err := w.checkStep(StepSubjects); err != nil {
		return w, err
	}
	if !containsString(w.form.SelectedClasses, classID) {
		return w, errors.Wrapf(ErrClassNotSelected, "class %q", classID)
	}
	subjects := uniqueStrings(subjectIDs)
	for _, id := range subjects {
		if _, ok := w.catalog.Subject(id); !ok {
			return w, errors.Wrapf(ErrUnknownSubject, "subject %q", id)
		}
	}

	f := w.form.clone()
	f.ClassSubjects[classID] = subjects
	return w.with(f), nil
}

// Generate runs the scheduling strategy of the chosen mode (step 6).
// Auto overwrites the whole schedule; manual leaves it for the grid editor.
func (w Wizard) Generate() (Wizard, Result, error) {
	if err := w.checkStep(StepSchedule); err != nil {
		return w, Result{}, err
	}

	f := w.form
	switch f.Mode {
	case ModeAuto:
		res := AutoSchedule(f.ClassSubjects, f.SelectedClasses, f.Slots, f.Parameters.Dates(), w.catalog)
		nf := f.clone()
		nf.Schedule = res.Schedule.clone()
		return w.with(nf), res, nil
	case ModeManual:
		return w, Result{Schedule: f.Schedule.clone(), Unplaced: make([]string, 0)}, nil
	case ModeUnset:
		return w, Result{}, errors.Wrap(ErrInvalidMode, "no mode chosen")
	default:
		return w, Result{}, errors.Wrapf(ErrInvalidMode, "mode %d", f.Mode)
	}
}

// Grid returns the addressable cells of the current form.
func (w Wizard) Grid() Grid {
	return Grid{
		Dates:   w.form.Parameters.Dates(),
		Slots:   append(Slots(nil), w.form.Slots...),
		Classes: append([]string(nil), w.form.SelectedClasses...),
	}
}

func (w Wizard) View() View {
	return BuildView(w.Grid(), w.form.Schedule, w.form.ClassSubjects, w.catalog)
}

func (w Wizard) Summary() []Coverage {
	return Summarize(w.form.Schedule, w.form.ClassSubjects, w.form.SelectedClasses, w.catalog)
}

func (w Wizard) EntryAt(c Cell) (Entry, bool) {
	return EntryAt(w.form.Schedule, c)
}

// Assign sets one grid cell (step 6). Works the same in auto and manual mode.
func (w Wizard) Assign(c Cell, subjectID string) (Wizard, error) {
	if err := w.checkStep(StepSchedule); err != nil {
		return w, err
	}
	if !w.Grid().Contains(c) {
		return w, errors.Wrapf(ErrCellOutOfRange, "cell %s", strings.ReplaceAll(c.key(), "|", "/"))
	}
	schedule, err := Assign(w.form.Schedule, w.form.ClassSubjects, c, subjectID, w.catalog)
	if err != nil {
		return w, errors.Wrapf(err, "subject %q, class %q", subjectID, c.ClassID)
	}

	f := w.form.clone()
	f.Schedule = schedule
	return w.with(f), nil
}

// Clear empties one grid cell (step 6).
func (w Wizard) Clear(c Cell) (Wizard, error) {
	if err := w.checkStep(StepSchedule); err != nil {
		return w, err
	}
	f := w.form.clone()
	f.Schedule = Clear(f.Schedule, c)
	return w.with(f), nil
}

// Records flattens the schedule for commit.
func (w Wizard) Records() ([]Record, error) {
	if err := w.checkStep(StepSchedule); err != nil {
		return nil, err
	}
	return BuildRecords(w.form.Schedule, w.form.Parameters, w.form.Slots)
}
