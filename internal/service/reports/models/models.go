package models

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// MaxPeriodDays максимальная длина периода отчёта
const MaxPeriodDays = 366

// Request модели

// GetReportRequest запрос отчёта за период, обе даты включительно
type GetReportRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"` // "2024-03-01"
	To   string `json:"to" validate:"required,datetime=2006-01-02"`   // "2024-03-31"
}

// Response модели

// PerformanceItem показатели услуги или барбера
type PerformanceItem struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// ReportResponse отчёт за период
type ReportResponse struct {
	From                string            `json:"from"`
	To                  string            `json:"to"`
	TotalAppointments   int               `json:"totalAppointments"`
	CompletedCount      int               `json:"completedAppointments"`
	CompletionRate      float64           `json:"completionRate"` // проценты, 0-100
	TotalRevenue        float64           `json:"totalRevenue"`
	ServicePerformance  []PerformanceItem `json:"servicePerformance"`
	EmployeePerformance []PerformanceItem `json:"employeePerformance"`
}

// DailyCountResponse число запланированных записей на день
type DailyCountResponse struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Count   int    `json:"count"`
}

// DashboardResponse сводка для главного экрана
type DashboardResponse struct {
	GeneratedAt        time.Time            `json:"generatedAt"`
	TodayAppointments  int                  `json:"todayAppointments"`
	TotalClients       int                  `json:"totalClients"`
	TotalServices      int                  `json:"totalServices"`
	TodayRevenue       float64              `json:"todayRevenue"`
	Upcoming           []DailyCountResponse `json:"upcoming"`
	ServicePerformance []PerformanceItem    `json:"servicePerformance"`
}

// Методы конвертации

// FromDomainReport конвертирует отчёт в DTO, to в отчёте не включительно
func FromDomainReport(r *domain.Report, loc *time.Location) *ReportResponse {
	resp := &ReportResponse{
		From:                r.From.In(loc).Format(domain.DateFormat),
		To:                  r.To.In(loc).AddDate(0, 0, -1).Format(domain.DateFormat),
		TotalAppointments:   r.TotalAppointments,
		CompletedCount:      r.CompletedCount,
		CompletionRate:      r.CompletionRate,
		TotalRevenue:        r.TotalRevenue,
		ServicePerformance:  make([]PerformanceItem, 0, len(r.ServicePerformance)),
		EmployeePerformance: make([]PerformanceItem, 0, len(r.EmployeePerformance)),
	}

	for _, sp := range r.ServicePerformance {
		resp.ServicePerformance = append(resp.ServicePerformance, PerformanceItem{
			ID: sp.ServiceID, Name: sp.ServiceName, Count: sp.Count, Revenue: sp.Revenue,
		})
	}
	for _, ep := range r.EmployeePerformance {
		resp.EmployeePerformance = append(resp.EmployeePerformance, PerformanceItem{
			ID: ep.EmployeeID, Name: ep.EmployeeName, Count: ep.Count, Revenue: ep.Revenue,
		})
	}

	return resp
}

// FromDomainDashboard конвертирует сводку в DTO
func FromDomainDashboard(d *domain.Dashboard, loc *time.Location) *DashboardResponse {
	resp := &DashboardResponse{
		GeneratedAt:        d.GeneratedAt,
		TodayAppointments:  d.TodayAppointments,
		TotalClients:       d.TotalClients,
		TotalServices:      d.TotalServices,
		TodayRevenue:       d.TodayRevenue,
		Upcoming:           make([]DailyCountResponse, 0, len(d.Upcoming)),
		ServicePerformance: make([]PerformanceItem, 0, len(d.ServicePerformance)),
	}

	for _, dc := range d.Upcoming {
		local := dc.Date.In(loc)
		resp.Upcoming = append(resp.Upcoming, DailyCountResponse{
			Date:    local.Format(domain.DateFormat),
			Weekday: local.Weekday().String(),
			Count:   dc.Count,
		})
	}
	for _, sp := range d.ServicePerformance {
		resp.ServicePerformance = append(resp.ServicePerformance, PerformanceItem{
			ID: sp.ServiceID, Name: sp.ServiceName, Count: sp.Count, Revenue: sp.Revenue,
		})
	}

	return resp
}
