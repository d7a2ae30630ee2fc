package domain

import "time"

// ServicePerformance aggregated figures for one service
type ServicePerformance struct {
	ServiceID   int64
	ServiceName string
	Count       int
	Revenue     float64
}

// EmployeePerformance aggregated figures for one barber
type EmployeePerformance struct {
	EmployeeID   int64
	EmployeeName string
	Count        int
	Revenue      float64
}

// Report aggregates appointments over [From, To)
type Report struct {
	From                time.Time
	To                  time.Time
	TotalAppointments   int
	CompletedCount      int
	CompletionRate      float64 // 0-100
	TotalRevenue        float64
	ServicePerformance  []ServicePerformance
	EmployeePerformance []EmployeePerformance
}

// DailyCount number of scheduled appointments for a day
type DailyCount struct {
	Date  time.Time
	Count int
}

// Dashboard is the summary shown on the main screen
type Dashboard struct {
	GeneratedAt        time.Time
	TodayAppointments  int
	TotalClients       int
	TotalServices      int
	TodayRevenue       float64
	Upcoming           []DailyCount
	ServicePerformance []ServicePerformance
}
