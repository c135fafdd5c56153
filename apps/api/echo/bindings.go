package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mitihani/core"
	"github.com/trezcool/mitihani/core/exam"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field != "" {
			ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
		}
	}
}

// bindCell reads a grid cell from the `date`, `slot_id` and `class_id` query params.
func bindCell(ctx echo.Context) (exam.Cell, error) {
	date, err := exam.ParseDate(ctx.QueryParam("date"))
	if err != nil {
		return exam.Cell{}, errors.Wrap(err, "binding cell date")
	}
	return exam.Cell{
		Date:    date,
		SlotID:  core.CleanString(ctx.QueryParam("slot_id")),
		ClassID: core.CleanString(ctx.QueryParam("class_id")),
	}, nil
}
