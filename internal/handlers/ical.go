package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pantryhub/pantry-hub/internal/repository"
)

// ICalHandler publishes the meal plan as an iCal feed so calendar
// apps can subscribe to planned meals.
type ICalHandler struct {
	assignmentRepo repository.MealAssignmentRepository
}

func NewICalHandler(assignmentRepo repository.MealAssignmentRepository) *ICalHandler {
	return &ICalHandler{assignmentRepo: assignmentRepo}
}

func (handler *ICalHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// A year back and a year forward covers any plan a calendar app
	// would render.
	now := time.Now()
	from := now.AddDate(-1, 0, 0).Format("2006-01-02")
	to := now.AddDate(1, 0, 0).Format("2006-01-02")

	assignments, err := handler.assignmentRepo.FindBetween(ctx, from, to)
	if err != nil {
		slog.Error("finding meal assignments for ical feed", "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//Pantry Hub//Pantry Hub//EN")
	calendar.SetXWRCalName("Pantry Hub Meals")

	for _, assignment := range assignments {
		day, err := time.Parse("2006-01-02", assignment.Date)
		if err != nil {
			continue
		}

		event := calendar.AddEvent(fmt.Sprintf("meal-%s-%s@pantry-hub", assignment.Date, assignment.Slot))
		event.SetDtStampTime(now)
		event.SetSummary(fmt.Sprintf("[%s] %s", capitalizeFirst(string(assignment.Slot)), assignment.RecipeName))
		event.SetDescription(fmt.Sprintf("%d portions", assignment.Portions))
		event.SetAllDayStartAt(day)
		// All-day events end the next day per the iCal spec.
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=pantry-hub-meals.ics")
	w.Write([]byte(calendar.Serialize()))
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
