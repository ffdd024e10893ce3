package directory

import (
	"fmt"

	"truck-route-system/internal/geo"
)

// Report результат проверки справочников при старте
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// OK сообщает, что ошибок не найдено
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Check проверяет справочники: пустые таблицы, повторяющиеся id,
// координаты вне диапазонов и отсутствие активных точек
func Check(dir *Directory) Report {
	var report Report
	checkTable(&report, dir.EntryGates, "entry gate")
	checkTable(&report, dir.Docks, "destination dock")
	return report
}

func checkTable(report *Report, table Table, label string) {
	if table.Len() == 0 {
		report.Errors = append(report.Errors, fmt.Sprintf("no %s configured", label))
		return
	}

	seen := make(map[int]struct{}, table.Len())
	for i, loc := range table.entries {
		if _, dup := seen[loc.ID]; dup {
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s %d (%s) has duplicate id %d", label, i+1, loc.DisplayName, loc.ID))
		}
		seen[loc.ID] = struct{}{}

		if !geo.IsValid(loc.Coordinates) {
			report.Errors = append(report.Errors,
				fmt.Sprintf("%s %d (%s) has invalid coordinates", label, i+1, loc.DisplayName))
		}
	}

	if len(ActiveEntries(table)) == 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("no active %s", label))
	}
}
