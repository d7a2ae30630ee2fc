package reports

import (
	"cmp"
	"math"
	"slices"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// servicePerformance считает завершённые записи по каждой услуге каталога.
// Услуги без записей тоже попадают в результат. Сортировка по убыванию числа записей.
func servicePerformance(services []*domain.Service, appointments []*domain.Appointment) []domain.ServicePerformance {
	result := make([]domain.ServicePerformance, 0, len(services))
	index := make(map[int64]int, len(services))
	for _, s := range services {
		index[s.ID] = len(result)
		result = append(result, domain.ServicePerformance{ServiceID: s.ID, ServiceName: s.Name})
	}

	for _, a := range appointments {
		if !a.IsCompleted() {
			continue
		}
		i, ok := index[a.ServiceID]
		if !ok {
			index[a.ServiceID] = len(result)
			i = len(result)
			result = append(result, domain.ServicePerformance{ServiceID: a.ServiceID, ServiceName: a.ServiceName})
		}
		result[i].Count++
		result[i].Revenue = roundMoney(result[i].Revenue + a.Price)
	}

	slices.SortStableFunc(result, func(a, b domain.ServicePerformance) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.ServiceName, b.ServiceName))
	})
	return result
}

// employeePerformance считает завершённые записи по каждому барберу
func employeePerformance(barbers []*domain.Employee, appointments []*domain.Appointment) []domain.EmployeePerformance {
	result := make([]domain.EmployeePerformance, 0, len(barbers))
	index := make(map[int64]int, len(barbers))
	for _, e := range barbers {
		if !e.IsBarber() {
			continue
		}
		index[e.ID] = len(result)
		result = append(result, domain.EmployeePerformance{EmployeeID: e.ID, EmployeeName: e.Name})
	}

	for _, a := range appointments {
		if !a.IsCompleted() {
			continue
		}
		if i, ok := index[a.EmployeeID]; ok {
			result[i].Count++
			result[i].Revenue = roundMoney(result[i].Revenue + a.Price)
		}
	}

	slices.SortStableFunc(result, func(a, b domain.EmployeePerformance) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.EmployeeName, b.EmployeeName))
	})
	return result
}

// completedTotals число завершённых записей и выручка по ним
func completedTotals(appointments []*domain.Appointment) (int, float64) {
	var count int
	var revenue float64
	for _, a := range appointments {
		if a.IsCompleted() {
			count++
			revenue += a.Price
		}
	}
	return count, roundMoney(revenue)
}

// completionRate доля завершённых записей в процентах
func completionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)*10000/float64(total)) / 100
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
