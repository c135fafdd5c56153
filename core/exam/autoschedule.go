package exam

// Result is the outcome of an automatic scheduling run.
type Result struct {
	Schedule Schedule `json:"schedule"`
	// Unplaced lists the subjects that got no exam day because the dates ran out.
	Unplaced []string `json:"unplaced"`
}

// Complete reports whether every subject got a day.
func (r Result) Complete() bool {
	return len(r.Unplaced) == 0
}

// DistinctSubjects returns every subject selected for any of the classes, once,
// in order of first appearance (class order, then each class's own order).
func DistinctSubjects(cs ClassSubjects, classIDs []string) []string {
	seen := make(map[string]bool)
	subjects := make([]string, 0)
	for _, classID := range classIDs {
		for _, subjectID := range cs[classID] {
			if !seen[subjectID] {
				seen[subjectID] = true
				subjects = append(subjects, subjectID)
			}
		}
	}
	return subjects
}

// AutoSchedule places each distinct subject on its own day, consuming dates in order.
// Every class that sits a subject sits it in the same (date, slot) cell.
// The slot only advances once subjects outnumber dates, and those subjects have no
// day left, so in practice every placed subject lands in the first slot.
// Subjects beyond the available dates are returned in Result.Unplaced.
func AutoSchedule(cs ClassSubjects, classIDs []string, slots []TimeSlot, dates []Date, catalog Catalog) Result {
	subjects := DistinctSubjects(cs, classIDs)
	res := Result{Schedule: make(Schedule, 0), Unplaced: make([]string, 0)}
	if len(slots) == 0 || len(dates) == 0 {
		res.Unplaced = append(res.Unplaced, subjects...)
		return res
	}

	for i, subjectID := range subjects {
		if i >= len(dates) {
			res.Unplaced = append(res.Unplaced, subjects[i:]...)
			break
		}
		date := dates[i]
		slot := slots[(i/len(dates))%len(slots)]

		for _, classID := range classIDs {
			if !cs.Has(classID, subjectID) {
				continue
			}
			res.Schedule = append(res.Schedule, Entry{
				Date:        date,
				SlotID:      slot.ID,
				ClassID:     classID,
				SubjectID:   subjectID,
				ClassName:   catalog.className(classID),
				SubjectName: catalog.subjectName(subjectID),
			})
		}
	}
	return res
}
